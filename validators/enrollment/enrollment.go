package enrollmentValidator

import (
	"otms/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type UpdateEnrollmentRequest struct {
	Status         *string    `json:"status" validate:"omitempty,oneof=enrolled completed dropped failed"`
	CompletionDate *time.Time `json:"completion_date"`
	PreTestScore   *float64   `json:"pre_test_score" validate:"omitempty,gte=0,lte=100"`
	PostTestScore  *float64   `json:"post_test_score" validate:"omitempty,gte=0,lte=100"`
	Notes          *string    `json:"notes"`
}

type EnrollmentListQuery struct {
	Page     *int   `query:"page"`
	Limit    *int   `query:"limit"`
	Status   string `query:"status"`
	CourseID *uint  `query:"course_id"`
}

func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("courseId"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", id)
		return c.Next()
	}
}

func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateEnrollmentRequest)
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

		c.Locals("validatedEnrollmentUpdate", reqData)
		return c.Next()
	}
}

func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollmentListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
