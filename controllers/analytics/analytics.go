package analyticsController

import (
	"otms/database"
	"otms/middleware"
	analyticsValidator "otms/validators/analytics"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func filterFromLocals(c *fiber.Ctx) *analyticsValidator.Filter {
	filter, ok := c.Locals("analyticsFilter").(*analyticsValidator.Filter)
	if !ok {
		return &analyticsValidator.Filter{}
	}
	return filter
}

// GetDashboard handles GET /api/analytics/dashboard
func GetDashboard(c *fiber.Ctx) error {
	summary, err := DashboardData(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", summary)
}

// GetEnrollmentTrends handles GET /api/analytics/enrollment-trends
func GetEnrollmentTrends(c *fiber.Ctx) error {
	series, err := EnrollmentTrendSeries(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute enrollment trends!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment trends fetched successfully!", fiber.Map{
		"trends": series,
	})
}

// GetCompletionRates handles GET /api/analytics/completion-rates
func GetCompletionRates(c *fiber.Ctx) error {
	rates, err := CompletionRateData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute completion rates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion rates fetched successfully!", rates)
}

// GetFeedbackTrends handles GET /api/analytics/feedback-trends
func GetFeedbackTrends(c *fiber.Ctx) error {
	trends, err := FeedbackTrendData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute feedback trends!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback trends fetched successfully!", trends)
}

// GetUserGrowth handles GET /api/analytics/user-growth
func GetUserGrowth(c *fiber.Ctx) error {
	series, err := UserGrowthSeries(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute user growth!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User growth fetched successfully!", fiber.Map{
		"growth": series,
	})
}

// GetCoursePerformance handles GET /api/analytics/course-performance
func GetCoursePerformance(c *fiber.Ctx) error {
	performance, err := CoursePerformanceData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute course performance!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course performance fetched successfully!", fiber.Map{
		"courses": performance,
		"count":   len(performance),
	})
}

// GetOrganizationDashboard handles GET /api/analytics/organizations/:id
func GetOrganizationDashboard(c *fiber.Ctx) error {
	orgID, err := strconv.Atoi(c.Params("id"))
	if err != nil || orgID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Organization ID!", nil)
	}

	dashboard, err := OrgDashboardData(database.Database.Db, uint(orgID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization dashboard fetched successfully!", dashboard)
}

// GetRealtimeStats handles GET /api/analytics/realtime
func GetRealtimeStats(c *fiber.Ctx) error {
	stats, err := RealtimeData(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute realtime stats!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Realtime stats fetched successfully!", stats)
}

// GetDisabilityStats handles GET /api/analytics/disability
func GetDisabilityStats(c *fiber.Ctx) error {
	stats, err := DisabilityStatsData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute disability stats!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Disability stats fetched successfully!", stats)
}

// GetCertificateTrends handles GET /api/analytics/certificate-trends
func GetCertificateTrends(c *fiber.Ctx) error {
	trends, err := CertificateTrendData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute certificate trends!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate trends fetched successfully!", trends)
}

// GetAttendanceMethods handles GET /api/analytics/attendance-methods
func GetAttendanceMethods(c *fiber.Ctx) error {
	methods, err := AttendanceMethodData(database.Database.Db, filterFromLocals(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute attendance breakdown!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance breakdown fetched successfully!", methods)
}
