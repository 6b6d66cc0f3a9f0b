package requestController

import (
	"errors"
	"log"
	enrollmentController "otms/controllers/enrollment"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	requestValidator "otms/validators/request"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateRequest handles POST /api/requests
func CreateRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedRequest").(*requestValidator.TrainingRequestBody)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One open request per user per course
	var existing models.TrainingRequest
	if err := db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		userID, reqData.CourseID, models.RequestPending, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A pending request already exists for this course!", nil)
	}

	// Already enrolled means nothing to request
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).
		First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are already enrolled in this course!", nil)
	}

	request := models.TrainingRequest{
		UserID:                    userID,
		CourseID:                  reqData.CourseID,
		RequestDate:               time.Now(),
		Status:                    models.RequestPending,
		Justification:             reqData.Justification,
		AccessibilityRequirements: reqData.AccessibilityRequirements,
	}

	if err := db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create training request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Training request submitted!", request)
}

// GetRequests lists requests: trainees see their own, managers and admins see all
func GetRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	db := database.Database.Db.Model(&models.TrainingRequest{}).Where("is_deleted = ?", false)

	if role != models.RoleManager && role != models.RoleAdmin {
		db = db.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []models.TrainingRequest
	if err := db.Order("request_date desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Requests fetched successfully!", fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// UpdateRequest edits a request while it is still pending
func UpdateRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	reqData, ok := c.Locals("validatedRequestUpdate").(*requestValidator.UpdateTrainingRequestBody)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var request models.TrainingRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training request not found!", nil)
	}

	if request.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own requests!", nil)
	}
	if request.Status != models.RequestPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only pending requests can be updated!", nil)
	}

	if reqData.Justification != nil && *reqData.Justification != "" {
		request.Justification = *reqData.Justification
	}
	if reqData.AccessibilityRequirements != nil {
		request.AccessibilityRequirements = *reqData.AccessibilityRequirements
	}

	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Request updated successfully!", request)
}

// ApproveRequest handles PUT /api/requests/:id/approve. Approval enrolls the
// requester through the same capacity and duplicate rules as direct
// enrollment; if enrollment fails the request stays pending.
func ApproveRequest(c *fiber.Ctx) error {
	approverID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)
	reqData, _ := c.Locals("validatedDecision").(*requestValidator.DecisionBody)
	notes := ""
	if reqData != nil {
		notes = reqData.Notes
	}

	db := database.Database.Db

	var request models.TrainingRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training request not found!", nil)
	}

	if request.Status != models.RequestPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request is not pending!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", request.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Requesting user not found!", nil)
	}
	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", request.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqID := request.ID
	enrollment, warning, err := enrollmentController.EnrollUser(db, &user, &course, &reqID)
	if err != nil {
		switch {
		case errors.Is(err, enrollmentController.ErrCourseNotOpen),
			errors.Is(err, enrollmentController.ErrCourseStarted),
			errors.Is(err, enrollmentController.ErrCourseFull),
			errors.Is(err, enrollmentController.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot approve: "+err.Error(), nil)
		default:
			log.Printf("Error enrolling user %d on request approval: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve request!", nil)
		}
	}

	now := time.Now()
	request.Status = models.RequestApproved
	request.ApproverID = &approverID
	request.ApprovalDate = &now
	request.ApprovalNotes = notes
	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve request!", nil)
	}

	// Best effort notification
	utils.SendRequestApprovedEmail(user.Email, user.FullName(), course.Title, notes)

	message := "Request approved and user enrolled!"
	if warning != "" {
		message = message + " Warning: " + warning
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"request":    request,
		"enrollment": enrollment,
	})
}

// RejectRequest handles PUT /api/requests/:id/reject
func RejectRequest(c *fiber.Ctx) error {
	approverID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)
	reqData, _ := c.Locals("validatedDecision").(*requestValidator.DecisionBody)
	notes := ""
	if reqData != nil {
		notes = reqData.Notes
	}

	db := database.Database.Db

	var request models.TrainingRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training request not found!", nil)
	}

	if request.Status != models.RequestPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request is not pending!", nil)
	}

	now := time.Now()
	request.Status = models.RequestRejected
	request.ApproverID = &approverID
	request.ApprovalDate = &now
	request.ApprovalNotes = notes
	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject request!", nil)
	}

	var user models.User
	var course models.Course
	if db.Where("id = ?", request.UserID).First(&user).Error == nil &&
		db.Where("id = ?", request.CourseID).First(&course).Error == nil {
		utils.SendRequestRejectedEmail(user.Email, user.FullName(), course.Title, notes)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Request rejected!", request)
}

// CancelRequest lets the owner withdraw a pending request
func CancelRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	db := database.Database.Db

	var request models.TrainingRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training request not found!", nil)
	}

	if request.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only cancel your own requests!", nil)
	}
	if request.Status != models.RequestPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only pending requests can be cancelled!", nil)
	}

	request.Status = models.RequestCancelled
	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Request cancelled!", request)
}

// DeleteRequest removes a pending request entirely (owner or admin)
func DeleteRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	requestID := c.Locals("requestID").(int)

	db := database.Database.Db

	var request models.TrainingRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training request not found!", nil)
	}

	if request.UserID != userID && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own requests!", nil)
	}
	if request.Status != models.RequestPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only pending requests can be deleted!", nil)
	}

	request.IsDeleted = true
	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Request deleted!", nil)
}
