package courseValidator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
)

type AddLectureRequest struct {
	Type        string                `json:"type"`
	Title       string                `json:"title"`
	Order       *int                  `json:"order"`
	ContentText *string               `json:"content_text"`
	ContentURL  *string               `json:"content_url"`
	PassPercent *int                  `json:"pass_percent"`
	Questions   []models.QuizQuestion `json:"questions"`
}

type UpdateLectureRequest struct {
	Title       *string                `json:"title"`
	Order       *int                   `json:"order"`
	ContentText *string                `json:"content_text"`
	ContentURL  *string                `json:"content_url"`
	PassPercent *int                   `json:"pass_percent"`
	Questions   *[]models.QuizQuestion `json:"questions"`
}

// validateQuestions checks every question references an existing option.
func validateQuestions(questions []models.QuizQuestion, errors map[string]string) {
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			errors[fmt.Sprintf("questions[%d].text", i)] = "Question text is required!"
		}
		if len(q.Options) < 2 {
			errors[fmt.Sprintf("questions[%d].options", i)] = "At least 2 options are required!"
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			errors[fmt.Sprintf("questions[%d].correctIndex", i)] = "correctIndex must reference an existing option!"
		}
	}
}

// AddLecture validator middleware
func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Type
		if reqData.Type != models.LectureTypeReading && reqData.Type != models.LectureTypeQuiz {
			errors["type"] = "Type must be READING or QUIZ!"
		}

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		// Validate Order when supplied
		if reqData.Order != nil && *reqData.Order < 1 {
			errors["order"] = "Order must be a positive integer!"
		}

		// Quiz-specific payload
		if reqData.Type == models.LectureTypeQuiz {
			if len(reqData.Questions) == 0 {
				errors["questions"] = "Questions are required for a QUIZ lecture!"
			}
			validateQuestions(reqData.Questions, errors)

			if reqData.PassPercent != nil && (*reqData.PassPercent < 0 || *reqData.PassPercent > 100) {
				errors["pass_percent"] = "Pass percent must be between 0 and 100!"
			}
		}

		if len(errors) > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

// UpdateLecture validator middleware. Type is immutable so it is not part of
// the request; which variant fields apply is decided against the stored row.
func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be blank!"
		}

		if reqData.Order != nil && *reqData.Order < 1 {
			errors["order"] = "Order must be a positive integer!"
		}

		if reqData.Questions != nil {
			if len(*reqData.Questions) == 0 {
				errors["questions"] = "Questions cannot be emptied!"
			}
			validateQuestions(*reqData.Questions, errors)
		}

		if reqData.PassPercent != nil && (*reqData.PassPercent < 0 || *reqData.PassPercent > 100) {
			errors["pass_percent"] = "Pass percent must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
		}

		c.Locals("validatedLectureUpdate", reqData)
		return c.Next()
	}
}

// LectureID validates the :lectureId route param
func LectureID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lectureIDStr := strings.TrimSpace(c.Params("lectureId"))
		if lectureIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture ID is required!", nil)
		}

		lectureID, err := strconv.Atoi(lectureIDStr)
		if err != nil || lectureID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
		}

		c.Locals("lectureID", lectureID)
		return c.Next()
	}
}
