package attendanceValidator

import (
	"otms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ManualAttendanceRecord struct {
	EnrollmentID uint   `json:"enrollment_id" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=present absent late excused"`
}

type ManualAttendanceRequest struct {
	ScheduleID uint                     `json:"schedule_id" validate:"required"`
	Records    []ManualAttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

type CheckInRequest struct {
	ScheduleID uint   `json:"schedule_id" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

func ManualAttendance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ManualAttendanceRequest)
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

		c.Locals("validatedManualAttendance", reqData)
		return c.Next()
	}
}

func CheckIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckInRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Schedule ID and code are required!", nil)
		}

		c.Locals("validatedCheckIn", reqData)
		return c.Next()
	}
}
