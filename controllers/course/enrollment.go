package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
)

// EnrollInCourse enrolls the calling student. Idempotency rides on the
// (student, course) unique index: the insert either lands and the counter is
// bumped in the same transaction, or it hits the duplicate key and the
// existing state is returned untouched. No read-then-write race.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment := models.Enrollment{
		StudentID: userID,
		CourseID:  course.ID,
	}

	tx := database.Database.Db.Begin()

	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Already enrolled; report current state without re-incrementing
			database.Database.Db.Where("id = ?", course.ID).First(&course)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course.", fiber.Map{
				"enrolled":      true,
				"enrolledCount": course.EnrolledCount,
			})
		}
		log.Printf("Error enrolling student %d in course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	// Counter increment is conditioned on the insert above succeeding
	if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		log.Printf("Error incrementing enrolled_count for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing enrollment for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	database.Database.Db.Where("id = ?", course.ID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", fiber.Map{
		"enrolled":      true,
		"enrolledCount": course.EnrolledCount,
	})
}

// EnrollmentStatus reports whether the caller is enrolled in a course.
func EnrollmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment models.Enrollment
	err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched successfully!", fiber.Map{
		"enrolled": err == nil,
	})
}
