package authRoutes

import (
	controllers "otms/controllers/auth"
	"otms/middleware"
	validators "otms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and account routes
func SetupAuthRoutes(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/register", validators.Register(), controllers.Register)
	group.Post("/login", validators.Login(), controllers.Login)
	group.Post("/verify2fa", validators.Verify2FA(), controllers.Verify2FA)
	group.Get("/verifyemail/:token", controllers.VerifyEmail)
	group.Post("/forgotpassword", validators.ForgotPassword(), controllers.ForgotPassword)
	group.Put("/resetpassword/:token", validators.ResetPassword(), controllers.ResetPassword)

	group.Get("/me", middleware.JWTMiddleware, controllers.Me)
	group.Patch("/me", middleware.JWTMiddleware, validators.UpdateProfile(), controllers.UpdateProfile)
	group.Post("/2fa/toggle", middleware.JWTMiddleware, validators.Toggle2FA(), controllers.Toggle2FA)
}
