package analyticsRoutes

import (
	controllers "otms/controllers/analytics"
	"otms/middleware"
	validators "otms/validators/analytics"

	"github.com/gofiber/fiber/v2"
)

// SetupAnalyticsRoutes sets up dashboards, reporting and export routes
func SetupAnalyticsRoutes(app *fiber.App) {
	group := app.Group("/api/analytics", middleware.JWTMiddleware, middleware.RequirePermission("analytics", middleware.ActionRead))

	group.Get("/dashboard", controllers.GetDashboard)
	group.Get("/realtime", controllers.GetRealtimeStats)
	group.Get("/enrollment-trends", validators.QueryFilter(), controllers.GetEnrollmentTrends)
	group.Get("/completion-rates", validators.QueryFilter(), controllers.GetCompletionRates)
	group.Get("/feedback-trends", validators.QueryFilter(), controllers.GetFeedbackTrends)
	group.Get("/user-growth", validators.QueryFilter(), controllers.GetUserGrowth)
	group.Get("/course-performance", validators.QueryFilter(), controllers.GetCoursePerformance)
	group.Get("/organizations/:id", controllers.GetOrganizationDashboard)
	group.Get("/disability", validators.QueryFilter(), controllers.GetDisabilityStats)
	group.Get("/certificate-trends", validators.QueryFilter(), controllers.GetCertificateTrends)
	group.Get("/attendance-methods", validators.QueryFilter(), controllers.GetAttendanceMethods)

	group.Post("/reports/generate", middleware.RequirePermission("analytics", middleware.ActionCreate), validators.GenerateReport(), controllers.GenerateReport)
	group.Post("/export", middleware.RequirePermission("analytics", middleware.ActionCreate), validators.Export(), controllers.ExportData)
	group.Get("/download/:filename", controllers.DownloadReport)
	group.Get("/exports", controllers.GetExportHistory)
}
