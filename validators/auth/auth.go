package authValidator

import (
	"otms/middleware"
	"otms/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type RegisterRequest struct {
	FirstName          string `json:"first_name" validate:"required"`
	LastName           string `json:"last_name"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8"`
	OrganizationID     *uint  `json:"organization_id"`
	HasDisability      bool   `json:"has_disability"`
	DisabilityType     string `json:"disability_type"`
	AccessibilityNeeds string `json:"accessibility_needs"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TwoFARequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	HasDisability      *bool   `json:"has_disability"`
	DisabilityType     *string `json:"disability_type" validate:"omitempty,oneof=visual hearing physical cognitive other none"`
	AccessibilityNeeds *string `json:"accessibility_needs"`
}

type Toggle2FARequest struct {
	Enabled bool `json:"enabled"`
}

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
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

		if reqData.DisabilityType != "" {
			switch reqData.DisabilityType {
			case models.DisabilityVisual, models.DisabilityHearing, models.DisabilityPhysical,
				models.DisabilityCognitive, models.DisabilityOther, models.DisabilityNone:
			default:
				return middleware.ValidationErrorResponse(c, map[string]string{
					"disability_type": "Invalid disability type!",
				})
			}
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email and password are required!", nil)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func Verify2FA() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TwoFARequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email and 6-digit code are required!", nil)
		}

		c.Locals("validated2FA", reqData)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ForgotPasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid email is required!", nil)
		}

		c.Locals("validatedForgotPassword", reqData)
		return c.Next()
	}
}

func ResetPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResetPasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Password must be at least 8 characters!", nil)
		}

		c.Locals("validatedResetPassword", reqData)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid profile fields!", nil)
		}

		c.Locals("validatedUpdateProfile", reqData)
		return c.Next()
	}
}

func Toggle2FA() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(Toggle2FARequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedToggle2FA", reqData)
		return c.Next()
	}
}
