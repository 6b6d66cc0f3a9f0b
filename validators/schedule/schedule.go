package scheduleValidator

import (
	"otms/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ScheduleRequest struct {
	CourseID      uint      `json:"course_id" validate:"required"`
	SessionNumber int       `json:"session_number" validate:"required,gt=0"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" validate:"required"`
	Location      string    `json:"location"`
	VirtualLink   string    `json:"virtual_link"`
	TrainerID     uint      `json:"trainer_id" validate:"required"`
	Materials     string    `json:"materials"`
}

type UpdateScheduleRequest struct {
	Title       *string    `json:"title"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Location    *string    `json:"location"`
	VirtualLink *string    `json:"virtual_link"`
	TrainerID   *uint      `json:"trainer_id"`
	Materials   *string    `json:"materials"`
}

type ScheduleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in-progress completed cancelled rescheduled"`
}

func ScheduleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Schedule ID!", nil)
		}

		c.Locals("scheduleID", id)
		return c.Next()
	}
}

func CreateSchedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScheduleRequest)
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

		if !reqData.EndTime.After(reqData.StartTime) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"end_time": "End time must be after start time!",
			})
		}

		c.Locals("validatedSchedule", reqData)
		return c.Next()
	}
}

func UpdateSchedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateScheduleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedScheduleUpdate", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScheduleStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid schedule status!", nil)
		}

		c.Locals("validatedScheduleStatus", reqData)
		return c.Next()
	}
}
