package attendanceRoutes

import (
	controllers "otms/controllers/attendance"
	"otms/middleware"
	validators "otms/validators/attendance"
	enrollmentValidators "otms/validators/enrollment"
	scheduleValidators "otms/validators/schedule"

	"github.com/gofiber/fiber/v2"
)

// SetupAttendanceRoutes sets up manual recording and QR check-in routes
func SetupAttendanceRoutes(app *fiber.App) {
	group := app.Group("/api/attendance", middleware.JWTMiddleware)

	group.Post("/manual", middleware.RequirePermission("attendance", middleware.ActionCreate), validators.ManualAttendance(), controllers.RecordManualAttendance)
	group.Post("/checkin", validators.CheckIn(), controllers.CheckIn)

	group.Get("/session/:id", middleware.RequirePermission("attendance", middleware.ActionRead), scheduleValidators.ScheduleID(), controllers.GetSessionAttendance)
	group.Get("/enrollment/:id", middleware.RequirePermission("attendance", middleware.ActionRead), enrollmentValidators.EnrollmentID(), controllers.GetEnrollmentAttendance)
}
