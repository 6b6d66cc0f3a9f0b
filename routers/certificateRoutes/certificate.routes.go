package certificateRoutes

import (
	controllers "otms/controllers/certificate"
	"otms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate listing, verification and
// download routes. Verification and download are public so the QR code on
// a printed certificate works without a login.
func SetupCertificateRoutes(app *fiber.App) {
	group := app.Group("/api/certificates")

	group.Get("/verify/:number", controllers.VerifyCertificate)
	group.Get("/download/:number", controllers.DownloadCertificate)

	group.Get("/my", middleware.JWTMiddleware, middleware.RequirePermission("certificates", middleware.ActionRead), controllers.GetMyCertificates)
	group.Get("/", middleware.JWTMiddleware, middleware.RequirePermission("certificates", middleware.ActionRead), controllers.GetCertificates)
	group.Patch("/:id/revoke", middleware.JWTMiddleware, middleware.RequirePermission("certificates", middleware.ActionUpdate), controllers.RevokeCertificate)
}
