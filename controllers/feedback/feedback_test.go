package feedbackController

import (
	"otms/database"
	"otms/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func seedCourse(t *testing.T, db *gorm.DB) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:     "First Aid",
		Capacity:  20,
		Status:    models.CourseActive,
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedEnrollmentWithStatus(t *testing.T, db *gorm.DB, courseID, userID uint, status string) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: time.Now().AddDate(0, -1, 0),
		Status:         status,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func TestEligibilityRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	_, err := CheckFeedbackEligibility(db, models.RoleTrainee, 99, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestEligibilityStaffWithoutEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	for _, role := range []string{models.RoleAdmin, models.RoleTrainer} {
		enrollment, err := CheckFeedbackEligibility(db, role, 99, course.ID)
		assert.NoError(t, err, role)
		assert.Nil(t, enrollment, role)
	}

	// managers get no staff exemption
	_, err := CheckFeedbackEligibility(db, models.RoleManager, 99, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestEligibilityEnrolledStatuses(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	for i, status := range []string{models.EnrollmentEnrolled, models.EnrollmentCompleted, models.EnrollmentFailed} {
		userID := uint(i + 1)
		seedEnrollmentWithStatus(t, db, course.ID, userID, status)
		enrollment, err := CheckFeedbackEligibility(db, models.RoleTrainee, userID, course.ID)
		assert.NoError(t, err, status)
		require.NotNil(t, enrollment, status)
	}
}

func TestEligibilityDroppedWithoutAttendance(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)
	seedEnrollmentWithStatus(t, db, course.ID, 1, models.EnrollmentDropped)

	_, err := CheckFeedbackEligibility(db, models.RoleTrainee, 1, course.ID)
	assert.ErrorIs(t, err, ErrNoSessionAttended)
}

func TestEligibilityDroppedWithAttendance(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)
	enrollment := seedEnrollmentWithStatus(t, db, course.ID, 1, models.EnrollmentDropped)

	require.NoError(t, db.Create(&models.Attendance{
		EnrollmentID:  enrollment.ID,
		Date:          time.Now().AddDate(0, 0, -3),
		SessionNumber: 1,
		Status:        models.AttendancePresent,
	}).Error)

	got, err := CheckFeedbackEligibility(db, models.RoleTrainee, 1, course.ID)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, enrollment.ID, got.ID)
}

func TestMaybeAutoCompleteAfterCourseEnd(t *testing.T) {
	db := setupTestDB(t)

	course := &models.Course{
		Title:     "Finished Course",
		Capacity:  20,
		Status:    models.CourseCompleted,
		StartDate: time.Now().AddDate(0, -2, 0),
		EndDate:   time.Now().AddDate(0, 0, -1),
	}
	require.NoError(t, db.Create(course).Error)

	enrollment := seedEnrollmentWithStatus(t, db, course.ID, 1, models.EnrollmentEnrolled)
	require.NoError(t, db.Create(&models.Attendance{
		EnrollmentID:  enrollment.ID,
		Date:          time.Now().AddDate(0, 0, -5),
		SessionNumber: 1,
		Status:        models.AttendancePresent,
	}).Error)

	maybeAutoComplete(db, enrollment)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	assert.NotNil(t, updated.CompletionDate)
}

func TestMaybeAutoCompleteSkipsRunningCourse(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db) // ends next month
	enrollment := seedEnrollmentWithStatus(t, db, course.ID, 1, models.EnrollmentEnrolled)

	maybeAutoComplete(db, enrollment)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentEnrolled, updated.Status)
}

func TestDuplicateFeedbackRejectedByIndex(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	first := models.Feedback{UserID: 1, CourseID: course.ID, OverallRating: 4}
	require.NoError(t, db.Create(&first).Error)

	second := models.Feedback{UserID: 1, CourseID: course.ID, OverallRating: 5}
	err := db.Create(&second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMaskAuthorHidesAnonymousIdentity(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{FirstName: "Jordan", LastName: "Lee", Email: "j@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	anonymous := models.Feedback{UserID: user.ID, CourseID: 1, OverallRating: 3, IsAnonymous: true}
	named := models.Feedback{UserID: user.ID, CourseID: 2, OverallRating: 4}

	view := maskAuthor(db, anonymous)
	assert.Equal(t, uint(0), view.UserID)
	assert.Equal(t, "Anonymous", view.AuthorName)

	view = maskAuthor(db, named)
	assert.Equal(t, user.ID, view.UserID)
	assert.Equal(t, "Jordan Lee", view.AuthorName)
}
