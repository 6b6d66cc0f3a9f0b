package userRoutes

import (
	controllers "otms/controllers/user"
	"otms/middleware"
	validators "otms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user administration routes
func SetupUserRoutes(app *fiber.App) {
	group := app.Group("/api/users", middleware.JWTMiddleware)

	group.Get("/", middleware.RequirePermission("users", middleware.ActionRead), validators.UserList(), controllers.GetUsers)
	group.Get("/:id", middleware.RequirePermission("users", middleware.ActionRead), validators.UserID(), controllers.GetUser)
	group.Patch("/:id", middleware.RequirePermission("users", middleware.ActionUpdate), validators.UserID(), validators.UpdateUser(), controllers.UpdateUser)
	group.Delete("/:id", middleware.RequirePermission("users", middleware.ActionDelete), validators.UserID(), controllers.DeleteUser)
}
