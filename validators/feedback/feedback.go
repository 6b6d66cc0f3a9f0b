package feedbackValidator

import (
	"otms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type FeedbackRequest struct {
	CourseID            uint   `json:"course_id" validate:"required"`
	OverallRating       int    `json:"overall_rating" validate:"required,gte=1,lte=5"`
	ContentRating       *int   `json:"content_rating" validate:"omitempty,gte=1,lte=5"`
	InstructorRating    *int   `json:"instructor_rating" validate:"omitempty,gte=1,lte=5"`
	FacilitiesRating    *int   `json:"facilities_rating" validate:"omitempty,gte=1,lte=5"`
	AccessibilityRating *int   `json:"accessibility_rating" validate:"omitempty,gte=1,lte=5"`
	Comments            string `json:"comments"`
	IsAnonymous         bool   `json:"is_anonymous"`
}

func SubmitFeedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(FeedbackRequest)
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

		c.Locals("validatedFeedback", reqData)
		return c.Next()
	}
}
