package userValidator

import (
	"otms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type UpdateUserRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Role               *string `json:"role" validate:"omitempty,oneof=trainee trainer manager admin"`
	OrganizationID     *uint   `json:"organization_id"`
	HasDisability      *bool   `json:"has_disability"`
	DisabilityType     *string `json:"disability_type" validate:"omitempty,oneof=visual hearing physical cognitive other none"`
	AccessibilityNeeds *string `json:"accessibility_needs"`
}

type UserListQuery struct {
	Page           *int   `query:"page"`
	Limit          *int   `query:"limit"`
	Role           string `query:"role"`
	OrganizationID *uint  `query:"organization_id"`
	Search         string `query:"search"`
}

func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", id)
		return c.Next()
	}
}

func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)
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

		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}
