package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up course, lecture, enrollment and progress routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Put("/:courseId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:courseId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CourseID(), controllers.DeleteCourse)

	// Lecture authoring under the parent course
	courseGroup.Post("/:courseId/lectures", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CourseID(), validators.AddLecture(), controllers.AddLecture)
	courseGroup.Get("/:courseId/lectures", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CourseID(), controllers.GetCourseLectures)

	// Lecture viewing runs through the sequential access gate
	lectureGroup := app.Group("/api/lectures")
	lectureGroup.Get("/:lectureId", middleware.JWTMiddleware, validators.LectureID(), controllers.GetLecture)
	lectureGroup.Put("/:lectureId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.LectureID(), validators.UpdateLecture(), controllers.UpdateLecture)
	lectureGroup.Delete("/:lectureId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.LectureID(), controllers.DeleteLecture)

	enrollmentGroup := app.Group("/api/enrollments")
	enrollmentGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), validators.CourseID(), controllers.EnrollInCourse)
	enrollmentGroup.Get("/:courseId/status", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollmentStatus)

	progressGroup := app.Group("/api/progress")
	progressGroup.Post("/complete-reading/:lectureId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), validators.LectureID(), controllers.MarkReadingComplete)
	progressGroup.Post("/submit-quiz/:lectureId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), validators.LectureID(), validators.SubmitQuiz(), controllers.SubmitQuiz)
	progressGroup.Get("/course/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)
}
