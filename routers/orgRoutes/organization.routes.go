package orgRoutes

import (
	controllers "otms/controllers/organization"
	"otms/middleware"
	validators "otms/validators/organization"

	"github.com/gofiber/fiber/v2"
)

// SetupOrganizationRoutes sets up organization management routes
func SetupOrganizationRoutes(app *fiber.App) {
	group := app.Group("/api/organizations", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("organizations", middleware.ActionCreate), validators.CreateOrganization(), controllers.CreateOrganization)
	group.Get("/", middleware.RequirePermission("organizations", middleware.ActionRead), controllers.GetOrganizations)
	group.Get("/:id", middleware.RequirePermission("organizations", middleware.ActionRead), validators.IDParam("orgID"), controllers.GetOrganization)
	group.Patch("/:id", middleware.RequirePermission("organizations", middleware.ActionUpdate), validators.IDParam("orgID"), validators.UpdateOrganization(), controllers.UpdateOrganization)
	group.Delete("/:id", middleware.RequirePermission("organizations", middleware.ActionDelete), validators.IDParam("orgID"), controllers.DeleteOrganization)
}
