package resourceRoutes

import (
	controllers "otms/controllers/resource"
	"otms/middleware"
	validators "otms/validators/resource"

	"github.com/gofiber/fiber/v2"
)

// SetupResourceRoutes sets up training resource routes
func SetupResourceRoutes(app *fiber.App) {
	group := app.Group("/api/resources", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("resources", middleware.ActionCreate), validators.CreateResource(), controllers.CreateResource)
	group.Get("/", middleware.RequirePermission("resources", middleware.ActionRead), controllers.GetResources)
	group.Get("/:id", middleware.RequirePermission("resources", middleware.ActionRead), validators.ResourceID(), controllers.GetResource)
	group.Patch("/:id", middleware.RequirePermission("resources", middleware.ActionUpdate), validators.ResourceID(), validators.UpdateResource(), controllers.UpdateResource)
	group.Delete("/:id", middleware.RequirePermission("resources", middleware.ActionDelete), validators.ResourceID(), controllers.DeleteResource)
}
