package scheduleRoutes

import (
	controllers "otms/controllers/schedule"
	"otms/middleware"
	validators "otms/validators/schedule"

	"github.com/gofiber/fiber/v2"
)

// SetupScheduleRoutes sets up session scheduling routes
func SetupScheduleRoutes(app *fiber.App) {
	group := app.Group("/api/schedules", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("schedules", middleware.ActionCreate), validators.CreateSchedule(), controllers.CreateSchedule)
	group.Get("/", middleware.RequirePermission("schedules", middleware.ActionRead), controllers.GetSchedules)
	group.Get("/:id", middleware.RequirePermission("schedules", middleware.ActionRead), validators.ScheduleID(), controllers.GetSchedule)
	group.Patch("/:id", middleware.RequirePermission("schedules", middleware.ActionUpdate), validators.ScheduleID(), validators.UpdateSchedule(), controllers.UpdateSchedule)
	group.Put("/:id/status", middleware.RequirePermission("schedules", middleware.ActionUpdate), validators.ScheduleID(), validators.UpdateStatus(), controllers.UpdateScheduleStatus)
	group.Delete("/:id", middleware.RequirePermission("schedules", middleware.ActionDelete), validators.ScheduleID(), controllers.DeleteSchedule)

	group.Get("/:id/qrcode", middleware.RequirePermission("schedules", middleware.ActionUpdate), validators.ScheduleID(), controllers.GetScheduleQRCode)
}
