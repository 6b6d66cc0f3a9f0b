package scheduleController

import (
	"fmt"
	"log"
	"os"
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	scheduleValidator "otms/validators/schedule"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

func CreateSchedule(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSchedule").(*scheduleValidator.ScheduleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Session numbers are unique within a course; the composite index backs
	// this check up at the storage layer
	var existing models.Schedule
	if err := db.Where("course_id = ? AND session_number = ? AND is_deleted = ?",
		reqData.CourseID, reqData.SessionNumber, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session number already exists for this course!", nil)
	}

	schedule := models.Schedule{
		CourseID:      reqData.CourseID,
		SessionNumber: reqData.SessionNumber,
		Title:         reqData.Title,
		StartTime:     reqData.StartTime,
		EndTime:       reqData.EndTime,
		Location:      reqData.Location,
		VirtualLink:   reqData.VirtualLink,
		TrainerID:     reqData.TrainerID,
		Materials:     reqData.Materials,
		SessionQrCode: utils.GenerateToken(),
		Status:        models.ScheduleScheduled,
	}

	if err := db.Create(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Schedule created successfully!", schedule)
}

func GetSchedules(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Schedule{}).Where("is_deleted = ?", false)

	if courseID := c.QueryInt("course_id"); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var schedules []models.Schedule
	if err := db.Order("start_time asc").Find(&schedules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch schedules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedules fetched successfully!", fiber.Map{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

func GetSchedule(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	var schedule models.Schedule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule fetched successfully!", schedule)
}

// UpdateSchedule edits session details. Completed sessions are immutable.
func UpdateSchedule(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	reqData, ok := c.Locals("validatedScheduleUpdate").(*scheduleValidator.UpdateScheduleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	if schedule.Status == models.ScheduleCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Completed sessions cannot be updated!", nil)
	}

	if reqData.Title != nil {
		schedule.Title = *reqData.Title
	}
	if reqData.StartTime != nil {
		schedule.StartTime = *reqData.StartTime
	}
	if reqData.EndTime != nil {
		schedule.EndTime = *reqData.EndTime
	}
	if !schedule.EndTime.After(schedule.StartTime) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "End time must be after start time!", nil)
	}
	if reqData.Location != nil {
		schedule.Location = *reqData.Location
	}
	if reqData.VirtualLink != nil {
		schedule.VirtualLink = *reqData.VirtualLink
	}
	if reqData.TrainerID != nil {
		schedule.TrainerID = *reqData.TrainerID
	}
	if reqData.Materials != nil {
		schedule.Materials = *reqData.Materials
	}

	if err := db.Save(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule updated successfully!", schedule)
}

// UpdateScheduleStatus handles PUT /api/schedules/:id/status
func UpdateScheduleStatus(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	reqData, ok := c.Locals("validatedScheduleStatus").(*scheduleValidator.ScheduleStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	if schedule.Status == models.ScheduleCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Completed sessions cannot be updated!", nil)
	}

	schedule.Status = reqData.Status
	if err := db.Save(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update schedule status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule status updated successfully!", schedule)
}

// DeleteSchedule rejects removal of sessions that are running or finished
func DeleteSchedule(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	if schedule.Status == models.ScheduleInProgress || schedule.Status == models.ScheduleCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Sessions in progress or completed cannot be deleted!", nil)
	}

	schedule.IsDeleted = true
	if err := db.Save(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule deleted successfully!", nil)
}

// GetScheduleQRCode renders the session check-in QR as a PNG
func GetScheduleQRCode(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	if schedule.SessionQrCode == "" {
		schedule.SessionQrCode = utils.GenerateToken()
		if err := db.Save(&schedule).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign session code!", nil)
		}
	}

	payload := fmt.Sprintf("%s/api/attendance/checkin?schedule_id=%d&code=%s",
		config.AppConfig.BaseURL, schedule.ID, schedule.SessionQrCode)

	qrDir := filepath.Join(config.AppConfig.UploadDir, "qrcodes")
	if err := os.MkdirAll(qrDir, 0755); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate QR code!", nil)
	}
	qrPath := filepath.Join(qrDir, fmt.Sprintf("session-%d.png", schedule.ID))

	if err := qrcode.WriteFile(payload, qrcode.Medium, 256, qrPath); err != nil {
		log.Printf("Error generating session QR for schedule %d: %v", schedule.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate QR code!", nil)
	}

	c.Set("Content-Type", "image/png")
	return c.SendFile(qrPath)
}
