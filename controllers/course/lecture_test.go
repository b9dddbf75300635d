package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/database"
	"lms/models"
)

func lecturePath(id uint) string {
	return fmt.Sprintf("/api/lectures/%d", id)
}

func TestSequentialLock(t *testing.T) {
	app := setupApp(t)

	instructor, _ := createUser(t, "Ada Instructor", models.RoleInstructor)
	student, studentToken := createUser(t, "Sam Student", models.RoleStudent)

	course := seedCourse(t, instructor.ID, "Go Basics")
	l1 := seedReading(t, course.ID, 1, "Intro")
	l2 := seedReading(t, course.ID, 2, "Middle")
	l3 := seedReading(t, course.ID, 3, "End")

	seedEnrollment(t, student.ID, course.ID)

	// Nothing completed: only the first lecture is reachable
	status, _ := doRequest(t, app, http.MethodGet, lecturePath(l1.ID), studentToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, resp := doRequest(t, app, http.MethodGet, lecturePath(l2.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, resp.Message, "Locked")
	status, _ = doRequest(t, app, http.MethodGet, lecturePath(l3.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Completing L1 unlocks L2 but not L3
	status, _ = doRequest(t, app, http.MethodPost, "/api/progress/complete-reading/"+fmt.Sprint(l1.ID), studentToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, lecturePath(l2.ID), studentToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, lecturePath(l3.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSequentialLockNotEnrolled(t *testing.T) {
	app := setupApp(t)

	instructor, _ := createUser(t, "Ada Instructor", models.RoleInstructor)
	_, studentToken := createUser(t, "Sam Student", models.RoleStudent)

	course := seedCourse(t, instructor.ID, "Go Basics")
	l1 := seedReading(t, course.ID, 1, "Intro")

	status, resp := doRequest(t, app, http.MethodGet, lecturePath(l1.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, resp.Message, "enroll")
}

func TestSequentialLockOrderTieBreak(t *testing.T) {
	app := setupApp(t)

	instructor, _ := createUser(t, "Ada Instructor", models.RoleInstructor)
	student, studentToken := createUser(t, "Sam Student", models.RoleStudent)

	course := seedCourse(t, instructor.ID, "Tied Course")
	// Same order value: the lower id comes first
	first := seedReading(t, course.ID, 5, "First by id")
	second := seedReading(t, course.ID, 5, "Second by id")

	seedEnrollment(t, student.ID, course.ID)

	status, _ := doRequest(t, app, http.MethodGet, lecturePath(first.ID), studentToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, lecturePath(second.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/progress/complete-reading/"+fmt.Sprint(first.ID), studentToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, lecturePath(second.ID), studentToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestInstructorBypass(t *testing.T) {
	app := setupApp(t)

	owner, ownerToken := createUser(t, "Ada Owner", models.RoleInstructor)
	_, otherToken := createUser(t, "Bob Other", models.RoleInstructor)

	course := seedCourse(t, owner.ID, "Go Basics")
	seedReading(t, course.ID, 1, "Intro")
	l2 := seedReading(t, course.ID, 2, "Middle")

	// The owner opens any lecture without enrollment or completions
	status, _ := doRequest(t, app, http.MethodGet, lecturePath(l2.ID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// A non-owning instructor goes through the enrollment check like anyone else
	status, _ = doRequest(t, app, http.MethodGet, lecturePath(l2.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAddLectureValidation(t *testing.T) {
	app := setupApp(t)

	instructor, token := createUser(t, "Ada Instructor", models.RoleInstructor)
	course := seedCourse(t, instructor.ID, "Go Basics")
	base := fmt.Sprintf("/api/courses/%d/lectures", course.ID)

	// Invalid type
	status, _ := doRequest(t, app, http.MethodPost, base, token, fiber.Map{"type": "VIDEO", "title": "Nope"})
	assert.Equal(t, http.StatusBadRequest, status)

	// Quiz without questions
	status, _ = doRequest(t, app, http.MethodPost, base, token, fiber.Map{"type": "QUIZ", "title": "Empty"})
	assert.Equal(t, http.StatusBadRequest, status)

	// correctIndex out of range
	status, _ = doRequest(t, app, http.MethodPost, base, token, fiber.Map{
		"type":  "QUIZ",
		"title": "Bad key",
		"questions": []map[string]interface{}{
			{"text": "q", "options": []string{"a", "b"}, "correctIndex": 2},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Valid quiz
	status, resp := doRequest(t, app, http.MethodPost, base, token, fiber.Map{
		"type":  "QUIZ",
		"title": "Good quiz",
		"questions": []map[string]interface{}{
			{"text": "q", "options": []string{"a", "b"}, "correctIndex": 1},
		},
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.Lecture
	decodeData(t, resp, &created)
	assert.Equal(t, models.DefaultPassPercent, created.PassPercent)
}

func TestAddLectureDefaultOrder(t *testing.T) {
	app := setupApp(t)

	instructor, token := createUser(t, "Ada Instructor", models.RoleInstructor)
	course := seedCourse(t, instructor.ID, "Go Basics")
	base := fmt.Sprintf("/api/courses/%d/lectures", course.ID)

	status, resp := doRequest(t, app, http.MethodPost, base, token, fiber.Map{"type": "READING", "title": "One"})
	require.Equal(t, http.StatusCreated, status)
	var first models.Lecture
	decodeData(t, resp, &first)
	assert.Equal(t, 1, first.OrderIndex)

	status, resp = doRequest(t, app, http.MethodPost, base, token, fiber.Map{"type": "READING", "title": "Two"})
	require.Equal(t, http.StatusCreated, status)
	var second models.Lecture
	decodeData(t, resp, &second)
	assert.Equal(t, 2, second.OrderIndex)
}

func TestAddLectureOwnershipAndMissingCourse(t *testing.T) {
	app := setupApp(t)

	owner, _ := createUser(t, "Ada Owner", models.RoleInstructor)
	_, otherToken := createUser(t, "Bob Other", models.RoleInstructor)
	course := seedCourse(t, owner.ID, "Go Basics")

	status, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/lectures", course.ID), otherToken,
		fiber.Map{"type": "READING", "title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/courses/99999/lectures", otherToken,
		fiber.Map{"type": "READING", "title": "Ghost"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateLectureVariantFields(t *testing.T) {
	app := setupApp(t)

	instructor, token := createUser(t, "Ada Instructor", models.RoleInstructor)
	course := seedCourse(t, instructor.ID, "Go Basics")
	reading := seedReading(t, course.ID, 1, "Intro")
	quiz := seedQuiz(t, course.ID, 2, "Checkpoint", []models.QuizQuestion{
		{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
	})

	status, resp := doRequest(t, app, http.MethodPut, lecturePath(reading.ID), token,
		fiber.Map{"content_text": "updated text", "pass_percent": 90})
	require.Equal(t, http.StatusOK, status)
	var updatedReading models.Lecture
	decodeData(t, resp, &updatedReading)
	assert.Equal(t, "updated text", updatedReading.ContentText)
	// Quiz fields do not apply to a reading
	assert.NotEqual(t, 90, updatedReading.PassPercent)
	assert.Equal(t, models.LectureTypeReading, updatedReading.Type)

	status, resp = doRequest(t, app, http.MethodPut, lecturePath(quiz.ID), token,
		fiber.Map{"pass_percent": 90, "content_text": "should not stick"})
	require.Equal(t, http.StatusOK, status)
	var updatedQuiz models.Lecture
	decodeData(t, resp, &updatedQuiz)
	assert.Equal(t, 90, updatedQuiz.PassPercent)
	assert.Empty(t, updatedQuiz.ContentText)
	assert.Equal(t, models.LectureTypeQuiz, updatedQuiz.Type)
}

func TestDeleteLectureScrubsAllProgress(t *testing.T) {
	app := setupApp(t)

	instructor, token := createUser(t, "Ada Instructor", models.RoleInstructor)
	course := seedCourse(t, instructor.ID, "Go Basics")
	target := seedReading(t, course.ID, 1, "Doomed")
	keeper := seedQuiz(t, course.ID, 2, "Keeper", []models.QuizQuestion{
		{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
	})

	students := make([]models.User, 3)
	for i := range students {
		students[i], _ = createUser(t, fmt.Sprintf("Student %d", i), models.RoleStudent)
		seedEnrollment(t, students[i].ID, course.ID)
		require.NoError(t, database.Database.Db.Create(&models.Progress{
			StudentID:           students[i].ID,
			CourseID:            course.ID,
			CompletedLectureIDs: []uint{target.ID, keeper.ID},
			Scores: []models.QuizScore{
				{LectureID: target.ID, Percent: 80},
				{LectureID: keeper.ID, Percent: 90},
			},
		}).Error)
	}

	status, _ := doRequest(t, app, http.MethodDelete, lecturePath(target.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	for _, student := range students {
		var progress models.Progress
		require.NoError(t, database.Database.Db.
			Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&progress).Error)

		assert.Equal(t, []uint{keeper.ID}, []uint(progress.CompletedLectureIDs))
		require.Len(t, progress.Scores, 1)
		assert.Equal(t, keeper.ID, progress.Scores[0].LectureID)
		assert.Equal(t, 90, progress.Scores[0].Percent)
	}

	var count int64
	database.Database.Db.Model(&models.Lecture{}).Where("id = ?", target.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteLectureOwnershipEnforced(t *testing.T) {
	app := setupApp(t)

	owner, _ := createUser(t, "Ada Owner", models.RoleInstructor)
	_, otherToken := createUser(t, "Bob Other", models.RoleInstructor)
	course := seedCourse(t, owner.ID, "Go Basics")
	lecture := seedReading(t, course.ID, 1, "Intro")

	status, _ := doRequest(t, app, http.MethodDelete, lecturePath(lecture.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
