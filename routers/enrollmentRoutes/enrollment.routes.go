package enrollmentRoutes

import (
	controllers "otms/controllers/enrollment"
	"otms/middleware"
	validators "otms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment lifecycle routes. Enrolling is
// exposed on the course side of the API, the rest lives under /enrollments.
func SetupEnrollmentRoutes(app *fiber.App) {
	app.Post("/api/courses/:courseId/enroll",
		middleware.JWTMiddleware,
		middleware.RequirePermission("enrollments", middleware.ActionCreate),
		validators.CourseID(), controllers.EnrollInCourse)

	group := app.Group("/api/enrollments", middleware.JWTMiddleware)

	group.Get("/my", middleware.RequirePermission("enrollments", middleware.ActionRead), validators.EnrollmentList(), controllers.GetMyEnrollments)
	group.Get("/course/:courseId", middleware.RequirePermission("enrollments", middleware.ActionRead), validators.CourseID(), validators.EnrollmentList(), controllers.GetCourseEnrollments)

	group.Put("/:id", middleware.RequirePermission("enrollments", middleware.ActionUpdate), validators.EnrollmentID(), validators.UpdateEnrollment(), controllers.UpdateEnrollment)
	group.Put("/:id/complete", middleware.RequirePermission("enrollments", middleware.ActionUpdate), validators.EnrollmentID(), controllers.CompleteEnrollment)
	group.Delete("/:id", middleware.RequirePermission("enrollments", middleware.ActionDelete), validators.EnrollmentID(), controllers.DeleteEnrollment)
}
