package feedbackRoutes

import (
	controllers "otms/controllers/feedback"
	"otms/middleware"
	validators "otms/validators/feedback"

	"github.com/gofiber/fiber/v2"
)

// SetupFeedbackRoutes sets up course feedback routes
func SetupFeedbackRoutes(app *fiber.App) {
	group := app.Group("/api/feedback", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("feedback", middleware.ActionCreate), validators.SubmitFeedback(), controllers.SubmitFeedback)
	group.Get("/course/:courseId", middleware.RequirePermission("feedback", middleware.ActionRead), controllers.GetCourseFeedback)
	group.Delete("/:id", middleware.RequirePermission("feedback", middleware.ActionDelete), controllers.DeleteFeedback)
}
