package attendanceController

import (
	"log"
	"otms/database"
	"otms/middleware"
	"otms/models"
	attendanceValidator "otms/validators/attendance"
	"time"

	"github.com/gofiber/fiber/v2"
)

// truncateToDay normalizes an attendance date so the (enrollment, date,
// session) uniqueness works on calendar days
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RecordManualAttendance handles POST /api/attendance/manual: a batch upsert
// of statuses for one session, for trainers and admins
func RecordManualAttendance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedManualAttendance").(*attendanceValidator.ManualAttendanceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", reqData.ScheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	date := truncateToDay(schedule.StartTime)
	saved := 0
	failed := 0

	for _, record := range reqData.Records {
		var enrollment models.Enrollment
		if err := db.Where("id = ? AND is_deleted = ?", record.EnrollmentID, false).First(&enrollment).Error; err != nil {
			failed++
			continue
		}
		if enrollment.CourseID != schedule.CourseID {
			failed++
			continue
		}

		var attendance models.Attendance
		err := db.Where("enrollment_id = ? AND date = ? AND session_number = ? AND is_deleted = ?",
			enrollment.ID, date, schedule.SessionNumber, false).First(&attendance).Error
		if err == nil {
			attendance.Status = record.Status
			attendance.VerificationMethod = models.VerificationManual
			if err := db.Save(&attendance).Error; err != nil {
				log.Printf("Error updating attendance for enrollment %d: %v", enrollment.ID, err)
				failed++
				continue
			}
		} else {
			attendance = models.Attendance{
				EnrollmentID:       enrollment.ID,
				ScheduleID:         schedule.ID,
				Date:               date,
				SessionNumber:      schedule.SessionNumber,
				Status:             record.Status,
				VerificationMethod: models.VerificationManual,
			}
			if err := db.Create(&attendance).Error; err != nil {
				log.Printf("Error creating attendance for enrollment %d: %v", enrollment.ID, err)
				failed++
				continue
			}
		}
		saved++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance recorded!", fiber.Map{
		"saved":  saved,
		"failed": failed,
	})
}

// CheckIn handles POST /api/attendance/checkin: the QR flow. The scanned
// payload carries the schedule id and its session code.
func CheckIn(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCheckIn").(*attendanceValidator.CheckInRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", reqData.ScheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if schedule.SessionQrCode == "" || schedule.SessionQrCode != reqData.Code {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Invalid session code!", nil)
	}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, schedule.CourseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	now := time.Now()
	date := truncateToDay(schedule.StartTime)

	var attendance models.Attendance
	err := db.Where("enrollment_id = ? AND date = ? AND session_number = ? AND is_deleted = ?",
		enrollment.ID, date, schedule.SessionNumber, false).First(&attendance).Error
	if err == nil {
		if attendance.Status == models.AttendancePresent {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already checked in for this session!", nil)
		}
		attendance.Status = models.AttendancePresent
		attendance.CheckInTime = &now
		attendance.VerificationMethod = models.VerificationQR
		if err := db.Save(&attendance).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check in!", nil)
		}
	} else {
		status := models.AttendancePresent
		if now.After(schedule.StartTime.Add(15 * time.Minute)) {
			status = models.AttendanceLate
		}
		attendance = models.Attendance{
			EnrollmentID:       enrollment.ID,
			ScheduleID:         schedule.ID,
			Date:               date,
			SessionNumber:      schedule.SessionNumber,
			Status:             status,
			CheckInTime:        &now,
			VerificationMethod: models.VerificationQR,
		}
		if err := db.Create(&attendance).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check in!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checked in successfully!", attendance)
}

// GetSessionAttendance lists all attendance rows of one session
func GetSessionAttendance(c *fiber.Ctx) error {
	scheduleID := c.Locals("scheduleID").(int)

	db := database.Database.Db

	var schedule models.Schedule
	if err := db.Where("id = ? AND is_deleted = ?", scheduleID, false).First(&schedule).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}

	var records []models.Attendance
	if err := db.Where("schedule_id = ? AND is_deleted = ?", scheduleID, false).
		Order("enrollment_id asc").Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attendance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance fetched successfully!", fiber.Map{
		"attendance": records,
		"count":      len(records),
	})
}

// GetEnrollmentAttendance lists one enrollment's attendance with its ratio
func GetEnrollmentAttendance(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	// Trainees may only see their own attendance
	if role == models.RoleTrainee && enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var records []models.Attendance
	if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollmentID, false).
		Order("date asc, session_number asc").Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attendance!", nil)
	}

	present := 0
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	rate := 0.0
	if len(records) > 0 {
		rate = float64(present) / float64(len(records)) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance fetched successfully!", fiber.Map{
		"attendance":      records,
		"total_sessions":  len(records),
		"present":         present,
		"attendance_rate": rate,
	})
}
