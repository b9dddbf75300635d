package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseRoutes "lms/routers/courseRoutes"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupApp wires a fiber app against a fresh in-memory database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		SaltRound:     4,
		JWTAccessKey:  "test-access-secret",
		JWTRefreshKey: "test-refresh-secret",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return app
}

func createUser(t *testing.T, name, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, instructorID uint, title string) models.Course {
	t.Helper()

	course := models.Course{Title: title, InstructorID: instructorID}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func seedReading(t *testing.T, courseID uint, order int, title string) models.Lecture {
	t.Helper()

	lecture := models.Lecture{
		CourseID:    courseID,
		OrderIndex:  order,
		Type:        models.LectureTypeReading,
		Title:       title,
		ContentText: "some text",
	}
	require.NoError(t, database.Database.Db.Create(&lecture).Error)
	return lecture
}

func seedQuiz(t *testing.T, courseID uint, order int, title string, questions []models.QuizQuestion) models.Lecture {
	t.Helper()

	lecture := models.Lecture{
		CourseID:    courseID,
		OrderIndex:  order,
		Type:        models.LectureTypeQuiz,
		Title:       title,
		PassPercent: models.DefaultPassPercent,
		Questions:   questions,
	}
	require.NoError(t, database.Database.Db.Create(&lecture).Error)
	return lecture
}

func seedEnrollment(t *testing.T, studentID, courseID uint) {
	t.Helper()

	require.NoError(t, database.Database.Db.Create(&models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}).Error)
}

// doRequest issues an authenticated JSON request and decodes the envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func decodeData(t *testing.T, resp apiResponse, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}
