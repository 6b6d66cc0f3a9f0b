package courseValidator

import (
	"otms/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CourseRequest struct {
	Title                 string    `json:"title" validate:"required"`
	Description           string    `json:"description"`
	Thumbnail             string    `json:"thumbnail"`
	Duration              int       `json:"duration" validate:"gte=0"`
	Capacity              int       `json:"capacity" validate:"required,gt=0"`
	StartDate             time.Time `json:"start_date" validate:"required"`
	EndDate               time.Time `json:"end_date" validate:"required"`
	Location              string    `json:"location"`
	IsVirtual             bool      `json:"is_virtual"`
	MeetingLink           string    `json:"meeting_link"`
	InstructorID          uint      `json:"instructor_id" validate:"required"`
	OrganizationID        *uint     `json:"organization_id"`
	Prerequisites         string    `json:"prerequisites"`
	AccessibilityFeatures string    `json:"accessibility_features"`
	Tags                  string    `json:"tags"`
}

type UpdateCourseRequest struct {
	Title                 *string    `json:"title"`
	Description           *string    `json:"description"`
	Thumbnail             *string    `json:"thumbnail"`
	Duration              *int       `json:"duration"`
	Capacity              *int       `json:"capacity"`
	StartDate             *time.Time `json:"start_date"`
	EndDate               *time.Time `json:"end_date"`
	Location              *string    `json:"location"`
	IsVirtual             *bool      `json:"is_virtual"`
	MeetingLink           *string    `json:"meeting_link"`
	InstructorID          *uint      `json:"instructor_id"`
	OrganizationID        *uint      `json:"organization_id"`
	Prerequisites         *string    `json:"prerequisites"`
	Status                *string    `json:"status" validate:"omitempty,oneof=scheduled active completed cancelled"`
	AccessibilityFeatures *string    `json:"accessibility_features"`
	Tags                  *string    `json:"tags"`
}

type CourseListQuery struct {
	Page           *int   `query:"page"`
	Limit          *int   `query:"limit"`
	Status         string `query:"status"`
	OrganizationID *uint  `query:"organization_id"`
	Search         string `query:"search"`
}

type MaterialRequest struct {
	Title    string `json:"title" validate:"required"`
	FileURL  string `json:"file_url" validate:"required"`
	FileType string `json:"file_type"`
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
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

		if !reqData.EndDate.After(reqData.StartDate) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"end_date": "End date must be after start date!",
			})
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course fields!", nil)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

func AddMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MaterialRequest)
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

		c.Locals("validatedMaterial", reqData)
		return c.Next()
	}
}
