package organizationValidator

import (
	"otms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type OrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
}

type UpdateOrganizationRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Address      *string `json:"address"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
}

// IDParam parses and validates a positive integer :id path parameter,
// storing it under the given Locals key
func IDParam(localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
		}

		c.Locals(localsKey, id)
		return c.Next()
	}
}

func CreateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OrganizationRequest)
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

		c.Locals("validatedOrganization", reqData)
		return c.Next()
	}
}

func UpdateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateOrganizationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid organization fields!", nil)
		}

		c.Locals("validatedOrganizationUpdate", reqData)
		return c.Next()
	}
}
