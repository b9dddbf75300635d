package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

type SubmitQuizRequest struct {
	// Entries may be null (question skipped); out-of-range values are graded
	// as incorrect rather than rejected.
	Answers []*int `json:"answers"`
}

// SubmitQuiz validator middleware
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "answers[] required!", nil)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
