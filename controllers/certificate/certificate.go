package certificateController

import (
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetMyCertificates lists the requester's certificates
func GetMyCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []models.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issue_date desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"count":        len(certificates),
	})
}

// GetCertificates lists certificates. Managers and admins see every
// record, other roles only the ones issued to them.
func GetCertificates(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Certificate{}).Where("is_deleted = ?", false)

	role, _ := c.Locals("role").(string)
	if role != models.RoleManager && role != models.RoleAdmin {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		db = db.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}

	var certificates []models.Certificate
	if err := db.Order("issue_date desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type CertificateWithDetails struct {
		models.Certificate
		UserName   string `json:"user_name"`
		CourseName string `json:"course_name"`
	}

	result := make([]CertificateWithDetails, len(certificates))
	for i, cert := range certificates {
		var user models.User
		var course models.Course
		database.Database.Db.Select("first_name, last_name").Where("id = ?", cert.UserID).First(&user)
		database.Database.Db.Select("title").Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithDetails{
			Certificate: cert,
			UserName:    user.FullName(),
			CourseName:  course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"count":        len(result),
	})
}

// VerifyCertificate is the public endpoint behind the QR code
func VerifyCertificate(c *fiber.Ctx) error {
	certNumber := strings.TrimSpace(c.Params("number"))
	if certNumber == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	db := database.Database.Db

	var certificate models.Certificate
	if err := db.Where("certificate_number = ? AND is_deleted = ?", certNumber, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var user models.User
	var course models.Course
	db.Select("first_name, last_name").Where("id = ?", certificate.UserID).First(&user)
	db.Select("title").Where("id = ?", certificate.CourseID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"certificate_number": certificate.CertificateNumber,
		"status":             certificate.Status,
		"issue_date":         certificate.IssueDate,
		"holder":             user.FullName(),
		"course":             course.Title,
		"valid":              certificate.Status == models.CertificateIssued,
	})
}

// DownloadCertificate streams the rendered PDF
func DownloadCertificate(c *fiber.Ctx) error {
	certNumber := strings.TrimSpace(c.Params("number"))
	if certNumber == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	var certificate models.Certificate
	if err := database.Database.Db.Where("certificate_number = ? AND is_deleted = ?", certNumber, false).
		First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	pdfPath := filepath.Join(config.AppConfig.UploadDir, "certificates", certificate.CertificateNumber+".pdf")
	c.Set("Content-Type", utils.ContentTypeByExtension(pdfPath))
	return c.SendFile(pdfPath)
}

// RevokeCertificate is an admin action; a revoked certificate fails the
// public verification check but its record remains
func RevokeCertificate(c *fiber.Ctx) error {
	certID, err := strconv.Atoi(c.Params("id"))
	if err != nil || certID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
	}

	db := database.Database.Db

	var certificate models.Certificate
	if err := db.Where("id = ? AND is_deleted = ?", certID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if certificate.Status == models.CertificateRevoked {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate is already revoked!", nil)
	}

	certificate.Status = models.CertificateRevoked
	if err := db.Save(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked!", certificate)
}
