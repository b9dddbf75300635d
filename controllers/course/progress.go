package controllers

import (
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
)

// gradeQuiz scores a submission against the question list. A missing or
// out-of-range answer counts as incorrect. An empty quiz grades to 0 so the
// percent never divides by zero.
func gradeQuiz(questions []models.QuizQuestion, answers []*int) int {
	if len(questions) == 0 {
		return 0
	}

	correct := 0
	for i, question := range questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == question.CorrectIndex {
			correct++
		}
	}

	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}

// progressForUpdate returns the caller's progress row for a course inside tx,
// creating it on the first completion or attempt event. The seed insert uses
// ON CONFLICT DO NOTHING so a concurrent first write cannot abort the
// transaction; on Postgres the follow-up read takes a row lock so concurrent
// mutations of the same row serialize (the sqlite test driver serializes
// writes on its own and rejects FOR UPDATE).
func progressForUpdate(tx *gorm.DB, studentID, courseID uint) (*models.Progress, error) {
	seed := models.Progress{
		StudentID:           studentID,
		CourseID:            courseID,
		CompletedLectureIDs: datatypes.JSONSlice[uint]{},
		Scores:              datatypes.JSONSlice[models.QuizScore]{},
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var progress models.Progress
	if err := q.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func containsLecture(ids datatypes.JSONSlice[uint], lectureID uint) bool {
	for _, id := range ids {
		if id == lectureID {
			return true
		}
	}
	return false
}

// MarkReadingComplete records completion of a reading lecture. Adding to the
// completed set is idempotent; repeating the call changes nothing.
func MarkReadingComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if lecture.Type != models.LectureTypeReading {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid reading lecture!", nil)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, lecture.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	tx := database.Database.Db.Begin()

	progress, err := progressForUpdate(tx, userID, lecture.CourseID)
	if err != nil {
		tx.Rollback()
		log.Printf("Error upserting progress for student %d course %d: %v", userID, lecture.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
	}

	if !containsLecture(progress.CompletedLectureIDs, lecture.ID) {
		progress.CompletedLectureIDs = append(progress.CompletedLectureIDs, lecture.ID)
		if err := tx.Save(progress).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving progress %d: %v", progress.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing reading completion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reading marked complete!", fiber.Map{
		"progress": progress,
	})
}

// SubmitQuiz grades a quiz submission. Every attempt is appended to the score
// history, pass or fail; the lecture joins the completed set only on a pass.
// Enrollment is re-verified here because submission is a separate write path
// from the gated lecture view.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lectureID := c.Locals("lectureID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*courseValidator.SubmitQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ?", lectureID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if lecture.Type != models.LectureTypeQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz lecture!", nil)
	}

	// Checked before any write so an unenrolled caller never leaves a score
	var enrollment models.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, lecture.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	percent := gradeQuiz(lecture.Questions, reqData.Answers)
	passed := percent >= lecture.PassPercent

	tx := database.Database.Db.Begin()

	progress, err := progressForUpdate(tx, userID, lecture.CourseID)
	if err != nil {
		tx.Rollback()
		log.Printf("Error upserting progress for student %d course %d: %v", userID, lecture.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	progress.Scores = append(progress.Scores, models.QuizScore{
		LectureID: lecture.ID,
		Percent:   percent,
		CreatedAt: time.Now().UTC(),
	})

	if passed && !containsLecture(progress.CompletedLectureIDs, lecture.ID) {
		progress.CompletedLectureIDs = append(progress.CompletedLectureIDs, lecture.ID)
	}

	if err := tx.Save(progress).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving progress %d: %v", progress.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing quiz submission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"percent":  percent,
		"passed":   passed,
		"progress": progress,
	})
}

// GetCourseProgress returns the caller's progress in a course, with empty
// defaults when nothing has been completed or attempted yet.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var progress models.Progress
	err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
				"completedLectureIds": []uint{},
				"scores":              []models.QuizScore{},
			})
		}
		log.Printf("Error fetching progress for student %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"completedLectureIds": progress.CompletedLectureIDs,
		"scores":              progress.Scores,
	})
}
