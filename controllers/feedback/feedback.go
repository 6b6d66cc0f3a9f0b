package feedbackController

import (
	"errors"
	"log"
	"otms/database"
	"otms/middleware"
	"otms/models"
	feedbackValidator "otms/validators/feedback"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feedback eligibility failures
var (
	ErrNotEnrolled       = errors.New("You are not enrolled in this course!")
	ErrNoSessionAttended = errors.New("No sessions attended before dropping")
)

// CheckFeedbackEligibility decides whether a user may leave feedback for a
// course. Admins and trainers may review courses they never enrolled in;
// everyone else needs an enrollment, and dropped trainees must have attended
// at least one session. The returned enrollment is nil for the staff path.
func CheckFeedbackEligibility(db *gorm.DB, role string, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil {
		if role == models.RoleAdmin || role == models.RoleTrainer {
			return nil, nil
		}
		return nil, ErrNotEnrolled
	}

	switch enrollment.Status {
	case models.EnrollmentCompleted, models.EnrollmentEnrolled, models.EnrollmentFailed:
		return &enrollment, nil
	case models.EnrollmentDropped:
		var present int64
		if err := db.Model(&models.Attendance{}).
			Where("enrollment_id = ? AND status = ? AND is_deleted = ?",
				enrollment.ID, models.AttendancePresent, false).
			Count(&present).Error; err != nil {
			return nil, err
		}
		if present == 0 {
			return nil, ErrNoSessionAttended
		}
		return &enrollment, nil
	}
	return &enrollment, nil
}

// maybeAutoComplete is the lazy variant of the scheduler sweep: an enrollment
// still marked enrolled after the course ended is completed at feedback time
// when the user attended at least one session
func maybeAutoComplete(db *gorm.DB, enrollment *models.Enrollment) {
	if enrollment == nil || enrollment.Status != models.EnrollmentEnrolled {
		return
	}

	var course models.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
		return
	}
	if time.Now().Before(course.EndDate) {
		return
	}

	var present int64
	db.Model(&models.Attendance{}).
		Where("enrollment_id = ? AND status = ? AND is_deleted = ?",
			enrollment.ID, models.AttendancePresent, false).
		Count(&present)
	if present == 0 {
		return
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentCompleted
	enrollment.CompletionDate = &now
	if err := db.Save(enrollment).Error; err != nil {
		log.Printf("Error auto-completing enrollment %d at feedback time: %v", enrollment.ID, err)
	}
}

// SubmitFeedback handles POST /api/feedback
func SubmitFeedback(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	reqData, ok := c.Locals("validatedFeedback").(*feedbackValidator.FeedbackRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One feedback per user per course
	var existing models.Feedback
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Feedback already submitted for this course!", nil)
	}

	enrollment, err := CheckFeedbackEligibility(db, role, userID, reqData.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEnrolled), errors.Is(err, ErrNoSessionAttended):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check eligibility!", nil)
		}
	}

	maybeAutoComplete(db, enrollment)

	feedback := models.Feedback{
		UserID:              userID,
		CourseID:            reqData.CourseID,
		OverallRating:       reqData.OverallRating,
		ContentRating:       reqData.ContentRating,
		InstructorRating:    reqData.InstructorRating,
		FacilitiesRating:    reqData.FacilitiesRating,
		AccessibilityRating: reqData.AccessibilityRating,
		Comments:            reqData.Comments,
		IsAnonymous:         reqData.IsAnonymous,
	}
	if enrollment != nil {
		feedback.EnrollmentID = enrollment.ID
	}

	if err := db.Create(&feedback).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Feedback already submitted for this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback submitted successfully!", feedback)
}

// FeedbackView is the read DTO; anonymous entries have their author masked
type FeedbackView struct {
	models.Feedback
	AuthorName string `json:"author_name"`
}

func maskAuthor(db *gorm.DB, f models.Feedback) FeedbackView {
	view := FeedbackView{Feedback: f}
	if f.IsAnonymous {
		view.UserID = 0
		view.AuthorName = "Anonymous"
		return view
	}
	var user models.User
	if err := db.Select("first_name, last_name").Where("id = ?", f.UserID).First(&user).Error; err == nil {
		view.AuthorName = user.FullName()
	}
	return view
}

// GetCourseFeedback lists feedback for a course with the average rating
func GetCourseFeedback(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}

	db := database.Database.Db

	var feedbacks []models.Feedback
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&feedbacks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	views := make([]FeedbackView, len(feedbacks))
	sum := 0
	for i, f := range feedbacks {
		views[i] = maskAuthor(db, f)
		sum += f.OverallRating
	}

	avg := 0.0
	if len(feedbacks) > 0 {
		avg = float64(sum) / float64(len(feedbacks))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully!", fiber.Map{
		"feedback":       views,
		"count":          len(views),
		"average_rating": avg,
	})
}

// DeleteFeedback is admin-only moderation
func DeleteFeedback(c *fiber.Ctx) error {
	feedbackID, err := strconv.Atoi(c.Params("id"))
	if err != nil || feedbackID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Feedback ID!", nil)
	}

	db := database.Database.Db

	var feedback models.Feedback
	if err := db.Where("id = ? AND is_deleted = ?", feedbackID, false).First(&feedback).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	feedback.IsDeleted = true
	if err := db.Save(&feedback).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback deleted successfully!", nil)
}
