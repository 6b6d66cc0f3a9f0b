package analyticsValidator

import (
	"otms/middleware"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Period values select the time-bucket granularity of trend series
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Filter is the shared query shape of every analytics operation. Absent
// date bounds fall back to a per-operation trailing window; an absent
// period falls back to monthly buckets.
type Filter struct {
	StartDate      *time.Time
	EndDate        *time.Time
	CourseID       *uint
	OrganizationID *uint
	Period         string
}

type rawFilter struct {
	StartDate      string `query:"start_date"`
	EndDate        string `query:"end_date"`
	CourseID       *uint  `query:"course_id"`
	OrganizationID *uint  `query:"organization_id"`
	Period         string `query:"period"`
}

type GenerateReportRequest struct {
	ReportType string `json:"report_type" validate:"required,oneof=enrollment completion feedback comprehensive"`
	Format     string `json:"format" validate:"omitempty,oneof=pdf json"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CourseID   *uint  `json:"course_id"`
	OrgID      *uint  `json:"organization_id"`
	Period     string `json:"period" validate:"omitempty,oneof=week month year"`
}

type ExportRequest struct {
	DataType  string `json:"data_type" validate:"required,oneof=enrollment completion feedback comprehensive"`
	Format    string `json:"format" validate:"required,oneof=csv excel json"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CourseID  *uint  `json:"course_id"`
	OrgID     *uint  `json:"organization_id"`
	Period    string `json:"period" validate:"omitempty,oneof=week month year"`
}

// ParseDate accepts the YYYY-MM-DD wire format used by the filter params
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func QueryFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(rawFilter)
		if err := c.QueryParser(raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		filter := &Filter{
			StartDate:      ParseDate(raw.StartDate),
			EndDate:        ParseDate(raw.EndDate),
			CourseID:       raw.CourseID,
			OrganizationID: raw.OrganizationID,
			Period:         raw.Period,
		}

		if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "End date must not precede start date!", nil)
		}

		switch filter.Period {
		case "", PeriodWeek, PeriodMonth, PeriodYear:
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Period must be week, month or year!", nil)
		}

		c.Locals("analyticsFilter", filter)
		return c.Next()
	}
}

func GenerateReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateReportRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				errors[fe.Field()] = "Failed validation: " + fe.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerateReport", reqData)
		return c.Next()
	}
}

func Export() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ExportRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				errors[fe.Field()] = "Failed validation: " + fe.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExport", reqData)
		return c.Next()
	}
}
