package resourceValidator

import (
	"otms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ResourceRequest struct {
	Name                  string `json:"name" validate:"required"`
	Type                  string `json:"type" validate:"required,oneof=room equipment material other"`
	Capacity              int    `json:"capacity" validate:"gte=0"`
	Location              string `json:"location"`
	Availability          *bool  `json:"availability"`
	OrganizationID        *uint  `json:"organization_id"`
	AccessibilityFeatures string `json:"accessibility_features"`
}

type UpdateResourceRequest struct {
	Name                  *string `json:"name"`
	Type                  *string `json:"type" validate:"omitempty,oneof=room equipment material other"`
	Capacity              *int    `json:"capacity"`
	Location              *string `json:"location"`
	Availability          *bool   `json:"availability"`
	OrganizationID        *uint   `json:"organization_id"`
	AccessibilityFeatures *string `json:"accessibility_features"`
}

func ResourceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Resource ID!", nil)
		}

		c.Locals("resourceID", id)
		return c.Next()
	}
}

func CreateResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResourceRequest)
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

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}

func UpdateResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateResourceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid resource fields!", nil)
		}

		c.Locals("validatedResourceUpdate", reqData)
		return c.Next()
	}
}
