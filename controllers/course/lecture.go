package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
)

func AddLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLecture").(*courseValidator.AddLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your course!", nil)
	}

	// Default the order to the end of the course
	order := 1
	if reqData.Order != nil {
		order = *reqData.Order
	} else {
		var last models.Lecture
		if err := database.Database.Db.Where("course_id = ?", course.ID).
			Order("order_index desc").First(&last).Error; err == nil {
			order = last.OrderIndex + 1
		}
	}

	lecture := models.Lecture{
		CourseID:   course.ID,
		OrderIndex: order,
		Type:       reqData.Type,
		Title:      reqData.Title,
	}

	switch reqData.Type {
	case models.LectureTypeReading:
		if reqData.ContentText != nil {
			lecture.ContentText = *reqData.ContentText
		}
		if reqData.ContentURL != nil {
			lecture.ContentURL = *reqData.ContentURL
		}
	case models.LectureTypeQuiz:
		lecture.PassPercent = models.DefaultPassPercent
		if reqData.PassPercent != nil {
			lecture.PassPercent = *reqData.PassPercent
		}
		lecture.Questions = datatypes.JSONSlice[models.QuizQuestion](reqData.Questions)
	}

	if err := database.Database.Db.Create(&lecture).Error; err != nil {
		log.Printf("Error creating lecture: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully!", lecture)
}

// GetCourseLectures lists full lecture rows for the owning instructor.
func GetCourseLectures(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your course!", nil)
	}

	var lectures []models.Lecture
	if err := database.Database.Db.Where("course_id = ?", course.ID).
		Order("order_index asc, id asc").Find(&lectures).Error; err != nil {
		log.Printf("Error fetching lectures for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully!", fiber.Map{
		"lectures": lectures,
	})
}

// orderedLectureIDs returns the ids of a course's lectures in viewing order:
// order_index ascending, id ascending as the tie-break.
func orderedLectureIDs(db *gorm.DB, courseID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Lecture{}).Where("course_id = ?", courseID).
		Order("order_index asc, id asc").Pluck("id", &ids).Error
	return ids, err
}

// completedSet loads the caller's completed-lecture set for a course. A
// missing progress row reads as an empty set.
func completedSet(db *gorm.DB, studentID, courseID uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)

	var progress models.Progress
	err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&progress).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return completed, nil
		}
		return nil, err
	}

	for _, id := range progress.CompletedLectureIDs {
		completed[id] = true
	}
	return completed, nil
}

// GetLecture serves a single lecture behind the sequential access gate. The
// gate is evaluated fresh on every request: deletions can shift positions
// between views, so no unlock state is cached.
func GetLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ?", lecture.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// The owning instructor bypasses enrollment and sequencing entirely.
	if user.Role == models.RoleInstructor && course.InstructorID == userID {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully!", lecture)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, course.ID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll to access lectures!", nil)
	}

	completed, err := completedSet(database.Database.Db, userID, course.ID)
	if err != nil {
		log.Printf("Error loading progress for student %d course %d: %v", userID, course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lecture!", nil)
	}

	ids, err := orderedLectureIDs(database.Database.Db, course.ID)
	if err != nil {
		log.Printf("Error ordering lectures for course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lecture!", nil)
	}

	// Every lecture before this one must be completed. The first lecture
	// passes vacuously.
	for _, id := range ids {
		if id == lecture.ID {
			break
		}
		if !completed[id] {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Locked. Complete previous lecture(s) first.", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully!", lecture)
}

func UpdateLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(int)

	reqData, ok := c.Locals("validatedLectureUpdate").(*courseValidator.UpdateLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ?", lecture.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your course!", nil)
	}

	if reqData.Title != nil {
		lecture.Title = *reqData.Title
	}
	if reqData.Order != nil {
		lecture.OrderIndex = *reqData.Order
	}

	// Variant fields only apply to the matching type; Type itself never changes.
	switch lecture.Type {
	case models.LectureTypeReading:
		if reqData.ContentText != nil {
			lecture.ContentText = *reqData.ContentText
		}
		if reqData.ContentURL != nil {
			lecture.ContentURL = *reqData.ContentURL
		}
	case models.LectureTypeQuiz:
		if reqData.PassPercent != nil {
			lecture.PassPercent = *reqData.PassPercent
		}
		if reqData.Questions != nil {
			lecture.Questions = datatypes.JSONSlice[models.QuizQuestion](*reqData.Questions)
		}
	}

	if err := database.Database.Db.Save(&lecture).Error; err != nil {
		log.Printf("Error updating lecture %d: %v", lectureID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully!", lecture)
}

// DeleteLecture removes a lecture and scrubs it from every student's progress
// in the course in one sweep: out of the completed set, and every score entry
// referencing it dropped. Other completed ids and scores stay untouched.
func DeleteLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ?", lecture.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your course!", nil)
	}

	tx := database.Database.Db.Begin()

	var progresses []models.Progress
	if err := tx.Where("course_id = ?", course.ID).Find(&progresses).Error; err != nil {
		tx.Rollback()
		log.Printf("Error loading progress rows for course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	for i := range progresses {
		progress := &progresses[i]

		kept := make(datatypes.JSONSlice[uint], 0, len(progress.CompletedLectureIDs))
		for _, id := range progress.CompletedLectureIDs {
			if id != lecture.ID {
				kept = append(kept, id)
			}
		}
		progress.CompletedLectureIDs = kept

		keptScores := make(datatypes.JSONSlice[models.QuizScore], 0, len(progress.Scores))
		for _, score := range progress.Scores {
			if score.LectureID != lecture.ID {
				keptScores = append(keptScores, score)
			}
		}
		progress.Scores = keptScores

		if err := tx.Save(progress).Error; err != nil {
			tx.Rollback()
			log.Printf("Error scrubbing lecture %d from progress %d: %v", lecture.ID, progress.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
		}
	}

	if err := tx.Unscoped().Delete(&lecture).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting lecture %d: %v", lecture.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing lecture delete %d: %v", lecture.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully!", fiber.Map{"ok": true})
}
