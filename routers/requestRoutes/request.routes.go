package requestRoutes

import (
	controllers "otms/controllers/request"
	"otms/middleware"
	validators "otms/validators/request"

	"github.com/gofiber/fiber/v2"
)

// SetupRequestRoutes sets up training request and approval routes
func SetupRequestRoutes(app *fiber.App) {
	group := app.Group("/api/requests", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("requests", middleware.ActionCreate), validators.CreateRequest(), controllers.CreateRequest)
	group.Get("/", middleware.RequirePermission("requests", middleware.ActionRead), controllers.GetRequests)
	group.Patch("/:id", middleware.RequirePermission("requests", middleware.ActionUpdate), validators.RequestID(), validators.UpdateRequest(), controllers.UpdateRequest)

	group.Put("/:id/approve", middleware.RequirePermission("requests", middleware.ActionApprove), validators.RequestID(), validators.Decision(), controllers.ApproveRequest)
	group.Put("/:id/reject", middleware.RequirePermission("requests", middleware.ActionApprove), validators.RequestID(), validators.Decision(), controllers.RejectRequest)
	group.Post("/:id/cancel", middleware.RequirePermission("requests", middleware.ActionUpdate), validators.RequestID(), controllers.CancelRequest)
	group.Delete("/:id", middleware.RequirePermission("requests", middleware.ActionDelete), validators.RequestID(), controllers.DeleteRequest)
}
