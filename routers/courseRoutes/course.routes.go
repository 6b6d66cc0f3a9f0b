package courseRoutes

import (
	controllers "otms/controllers/course"
	"otms/middleware"
	validators "otms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course catalogue and material routes
func SetupCourseRoutes(app *fiber.App) {
	group := app.Group("/api/courses", middleware.JWTMiddleware)

	group.Post("/", middleware.RequirePermission("courses", middleware.ActionCreate), validators.CreateCourse(), controllers.CreateCourse)
	group.Get("/", middleware.RequirePermission("courses", middleware.ActionRead), validators.CourseList(), controllers.GetCourses)
	group.Get("/:id", middleware.RequirePermission("courses", middleware.ActionRead), validators.CourseID(), controllers.GetCourse)
	group.Patch("/:id", middleware.RequirePermission("courses", middleware.ActionUpdate), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	group.Delete("/:id", middleware.RequirePermission("courses", middleware.ActionDelete), validators.CourseID(), controllers.DeleteCourse)

	group.Post("/:id/materials", middleware.RequirePermission("courses", middleware.ActionUpdate), validators.CourseID(), validators.AddMaterial(), controllers.AddMaterial)
	group.Post("/:id/materials/upload", middleware.RequirePermission("courses", middleware.ActionUpdate), validators.CourseID(), controllers.UploadMaterial)
}
