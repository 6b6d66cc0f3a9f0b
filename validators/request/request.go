package requestValidator

import (
	"otms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type TrainingRequestBody struct {
	CourseID                  uint   `json:"course_id" validate:"required"`
	Justification             string `json:"justification" validate:"required"`
	AccessibilityRequirements string `json:"accessibility_requirements"`
}

type UpdateTrainingRequestBody struct {
	Justification             *string `json:"justification"`
	AccessibilityRequirements *string `json:"accessibility_requirements"`
}

type DecisionBody struct {
	Notes string `json:"notes"`
}

func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", id)
		return c.Next()
	}
}

func CreateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TrainingRequestBody)
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

		c.Locals("validatedRequest", reqData)
		return c.Next()
	}
}

func UpdateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateTrainingRequestBody)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedRequestUpdate", reqData)
		return c.Next()
	}
}

func Decision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DecisionBody)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedDecision", reqData)
		return c.Next()
	}
}
