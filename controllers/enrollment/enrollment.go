package enrollmentController

import (
	"errors"
	"log"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	enrollmentValidator "otms/validators/enrollment"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Enrollment rule failures, mapped to HTTP responses by the handlers
var (
	ErrCourseNotOpen    = errors.New("Course is not open for enrollment!")
	ErrCourseStarted    = errors.New("Course has already started!")
	ErrAlreadyEnrolled  = errors.New("User already enrolled in this course!")
	ErrCourseFull       = errors.New("Course is at full capacity!")
	ErrAlreadyCompleted = errors.New("Enrollment already completed")
)

// EnrollUser runs the enrollment business rules and creates the record inside
// a transaction. The unique index on (user_id, course_id) is the backstop when
// two requests race past the duplicate check. Returns an accessibility warning
// string when the user's declared needs have no match in the course features;
// the enrollment still succeeds.
func EnrollUser(db *gorm.DB, user *models.User, course *models.Course, trainingRequestID *uint) (*models.Enrollment, string, error) {
	if course.Status != models.CourseScheduled && course.Status != models.CourseActive {
		return nil, "", ErrCourseNotOpen
	}
	if time.Now().After(course.StartDate) {
		return nil, "", ErrCourseStarted
	}

	var enrollment *models.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
			First(&existing).Error; err == nil {
			return ErrAlreadyEnrolled
		}

		// Capacity counts active and completed seats only
		var taken int64
		if err := tx.Model(&models.Enrollment{}).
			Where("course_id = ? AND status IN ? AND is_deleted = ?", course.ID,
				[]string{models.EnrollmentEnrolled, models.EnrollmentCompleted}, false).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken >= int64(course.Capacity) {
			return ErrCourseFull
		}

		enrollment = &models.Enrollment{
			UserID:            user.ID,
			CourseID:          course.ID,
			EnrollmentDate:    time.Now(),
			Status:            models.EnrollmentEnrolled,
			TrainingRequestID: trainingRequestID,
		}
		if err := tx.Create(enrollment).Error; err != nil {
			// Unique-index rejection is the authoritative duplicate path
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	warning := ""
	if user.HasDisability && user.AccessibilityNeeds != "" {
		needs := utils.SplitList(user.AccessibilityNeeds)
		offered := utils.SplitList(course.AccessibilityFeatures)
		if len(needs) > 0 && !utils.HasCommonItem(needs, offered) {
			warning = "The course may not cover your declared accessibility needs. Please contact the course organizer."
		}
	}

	return enrollment, warning, nil
}

// ValidateStatusTransition is the manual transition table used by the update
// endpoint. The auto-update sweep is a separate rule engine and does not
// consult this table.
func ValidateStatusTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case models.EnrollmentEnrolled:
		return to == models.EnrollmentCompleted || to == models.EnrollmentDropped || to == models.EnrollmentFailed
	case models.EnrollmentDropped, models.EnrollmentFailed:
		return to == models.EnrollmentEnrolled
	case models.EnrollmentCompleted:
		return false
	}
	return false
}

// EnrollInCourse handles POST /api/courses/:courseId/enroll
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, warning, err := EnrollUser(db, &user, &course, nil)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotOpen), errors.Is(err, ErrCourseStarted), errors.Is(err, ErrCourseFull), errors.Is(err, ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		default:
			log.Printf("Error enrolling user %d in course %d: %v", user.ID, course.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}

	// Best effort: a failed email never rolls back the enrollment
	utils.SendEnrollmentConfirmationEmail(user.Email, user.FullName(), course.Title, course.StartDate)

	message := "Enrolled in course successfully!"
	if warning != "" {
		message = message + " Warning: " + warning
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, enrollment)
}

// GetMyEnrollments lists the requester's enrollments
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, _ := c.Locals("validatedEnrollmentList").(*enrollmentValidator.EnrollmentListQuery)

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseEnrollments lists enrollments of a course for trainers and admins
func GetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, _ := c.Locals("validatedEnrollmentList").(*enrollmentValidator.EnrollmentListQuery)

	db := database.Database.Db.Model(&models.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false)
	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var enrollments []models.Enrollment
	if err := db.Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithUser struct {
		models.Enrollment
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		var enrolledUser models.User
		database.Database.Db.Select("first_name, last_name, email").Where("id = ?", e.UserID).First(&enrolledUser)
		result[i] = EnrollmentWithUser{
			Enrollment: e,
			UserName:   enrolledUser.FullName(),
			UserEmail:  enrolledUser.Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"count":       len(result),
	})
}

// UpdateEnrollment handles PUT /api/enrollments/:id for admins and trainers.
// Only status, completion date, test scores and notes may change.
func UpdateEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedEnrollmentUpdate").(*enrollmentValidator.UpdateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	statusChanged := false
	if reqData.Status != nil && *reqData.Status != enrollment.Status {
		if !ValidateStatusTransition(enrollment.Status, *reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Invalid status transition from "+enrollment.Status+" to "+*reqData.Status+"!", nil)
		}
		enrollment.Status = *reqData.Status
		statusChanged = true
	}
	if reqData.CompletionDate != nil {
		enrollment.CompletionDate = reqData.CompletionDate
	}
	if enrollment.Status == models.EnrollmentCompleted && enrollment.CompletionDate == nil {
		now := time.Now()
		enrollment.CompletionDate = &now
	}
	if reqData.PreTestScore != nil {
		enrollment.PreTestScore = reqData.PreTestScore
	}
	if reqData.PostTestScore != nil {
		enrollment.PostTestScore = reqData.PostTestScore
	}
	if reqData.Notes != nil {
		enrollment.Notes = *reqData.Notes
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	if statusChanged {
		var user models.User
		var course models.Course
		if db.Where("id = ?", enrollment.UserID).First(&user).Error == nil &&
			db.Where("id = ?", enrollment.CourseID).First(&course).Error == nil {
			utils.SendEnrollmentStatusEmail(user.Email, user.FullName(), course.Title, enrollment.Status)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// CompleteEnrollment handles PUT /api/enrollments/:id/complete: marks the
// enrollment completed and issues the certificate exactly once
func CompleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status == models.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, ErrAlreadyCompleted.Error(), nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	var course models.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	now := time.Now()
	certNumber := utils.GenerateCertificateNumber(enrollment.ID)

	assets, err := utils.GenerateCertificateAssets(certNumber, user.FullName(), course.Title, now)
	if err != nil {
		log.Printf("Error generating certificate assets for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	var certificate models.Certificate
	err = db.Transaction(func(tx *gorm.DB) error {
		enrollment.Status = models.EnrollmentCompleted
		enrollment.CompletionDate = &now
		enrollment.CertificateIssued = true
		if err := tx.Save(&enrollment).Error; err != nil {
			return err
		}

		certificate = models.Certificate{
			UserID:             user.ID,
			CourseID:           course.ID,
			EnrollmentID:       enrollment.ID,
			CertificateNumber:  certNumber,
			IssueDate:          now,
			VerificationURL:    assets.VerificationURL,
			VerificationQrCode: assets.QrCodeURL,
			PdfURL:             assets.PdfURL,
			Status:             models.CertificateIssued,
		}
		return tx.Create(&certificate).Error
	})
	if err != nil {
		log.Printf("Error completing enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete enrollment!", nil)
	}

	// Best effort: the completion and certificate stand even if the email fails
	go func() {
		if err := utils.SendCertificateEmail(user.Email, user.FullName(), course.Title, certNumber, assets.PdfPath); err != nil {
			log.Printf("Error emailing certificate %s: %v", certNumber, err)
		}
	}()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment completed and certificate issued!", fiber.Map{
		"enrollment":  enrollment,
		"certificate": certificate,
	})
}

// DeleteEnrollment is an admin-only hard removal from the roster (soft delete)
func DeleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	enrollment.IsDeleted = true
	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}
