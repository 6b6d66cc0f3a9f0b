package enrollmentController

import (
	"net/http/httptest"
	"otms/config"
	"otms/database"
	"otms/models"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
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

func makeUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleTrainee,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func makeCourse(t *testing.T, db *gorm.DB, capacity int, status string, startOffset time.Duration) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:     "Workplace Safety",
		Capacity:  capacity,
		Status:    status,
		StartDate: time.Now().Add(startOffset),
		EndDate:   time.Now().Add(startOffset + 30*24*time.Hour),
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestEnrollUserSucceeds(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "a@example.com")
	course := makeCourse(t, db, 20, models.CourseScheduled, 48*time.Hour)

	enrollment, warning, err := EnrollUser(db, user, course, nil)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
	assert.Equal(t, user.ID, enrollment.UserID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
}

func TestEnrollUserRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "a@example.com")
	course := makeCourse(t, db, 20, models.CourseScheduled, 48*time.Hour)

	_, _, err := EnrollUser(db, user, course, nil)
	require.NoError(t, err)

	_, _, err = EnrollUser(db, user, course, nil)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollUserRejectsWhenFull(t *testing.T) {
	db := setupTestDB(t)
	first := makeUser(t, db, "a@example.com")
	second := makeUser(t, db, "b@example.com")
	course := makeCourse(t, db, 1, models.CourseScheduled, 48*time.Hour)

	_, _, err := EnrollUser(db, first, course, nil)
	require.NoError(t, err)

	_, _, err = EnrollUser(db, second, course, nil)
	assert.ErrorIs(t, err, ErrCourseFull)
}

func TestEnrollUserCompletedSeatsStillCount(t *testing.T) {
	db := setupTestDB(t)
	first := makeUser(t, db, "a@example.com")
	second := makeUser(t, db, "b@example.com")
	course := makeCourse(t, db, 1, models.CourseScheduled, 48*time.Hour)

	enrollment, _, err := EnrollUser(db, first, course, nil)
	require.NoError(t, err)

	now := time.Now()
	enrollment.Status = models.EnrollmentCompleted
	enrollment.CompletionDate = &now
	require.NoError(t, db.Save(enrollment).Error)

	_, _, err = EnrollUser(db, second, course, nil)
	assert.ErrorIs(t, err, ErrCourseFull)
}

func TestEnrollUserDroppedSeatFreesCapacity(t *testing.T) {
	db := setupTestDB(t)
	first := makeUser(t, db, "a@example.com")
	second := makeUser(t, db, "b@example.com")
	course := makeCourse(t, db, 1, models.CourseScheduled, 48*time.Hour)

	enrollment, _, err := EnrollUser(db, first, course, nil)
	require.NoError(t, err)

	enrollment.Status = models.EnrollmentDropped
	require.NoError(t, db.Save(enrollment).Error)

	_, _, err = EnrollUser(db, second, course, nil)
	assert.NoError(t, err)
}

func TestEnrollUserRejectsClosedCourse(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "a@example.com")

	for _, status := range []string{models.CourseCompleted, models.CourseCancelled} {
		course := makeCourse(t, db, 20, status, 48*time.Hour)
		_, _, err := EnrollUser(db, user, course, nil)
		assert.ErrorIs(t, err, ErrCourseNotOpen, "status %s", status)
	}
}

func TestEnrollUserRejectsStartedCourse(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "a@example.com")
	course := makeCourse(t, db, 20, models.CourseActive, -time.Hour)

	_, _, err := EnrollUser(db, user, course, nil)
	assert.ErrorIs(t, err, ErrCourseStarted)
}

func TestEnrollUserAccessibilityWarning(t *testing.T) {
	db := setupTestDB(t)
	course := makeCourse(t, db, 20, models.CourseScheduled, 48*time.Hour)
	course.AccessibilityFeatures = "wheelchair access, large print"
	require.NoError(t, db.Save(course).Error)

	user := makeUser(t, db, "a@example.com")
	user.HasDisability = true
	user.DisabilityType = models.DisabilityHearing
	user.AccessibilityNeeds = "sign language interpreter"
	require.NoError(t, db.Save(user).Error)

	enrollment, warning, err := EnrollUser(db, user, course, nil)
	require.NoError(t, err)
	assert.NotNil(t, enrollment)
	assert.NotEmpty(t, warning)

	// matching needs produce no warning
	matched := makeUser(t, db, "b@example.com")
	matched.HasDisability = true
	matched.AccessibilityNeeds = "wheelchair access"
	require.NoError(t, db.Save(matched).Error)

	_, warning, err = EnrollUser(db, matched, course, nil)
	require.NoError(t, err)
	assert.Empty(t, warning)
}

func TestCompleteEnrollmentIssuesCertificateOnce(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{
		BaseURL:   "http://localhost:3000",
		UploadDir: t.TempDir(),
		SMTPHost:  "localhost",
		SMTPPort:  "1",
	}

	user := makeUser(t, db, "a@example.com")
	course := makeCourse(t, db, 20, models.CourseActive, 48*time.Hour)
	enrollment := &models.Enrollment{
		UserID:         user.ID,
		CourseID:       course.ID,
		EnrollmentDate: time.Now(),
		Status:         models.EnrollmentEnrolled,
	}
	require.NoError(t, db.Create(enrollment).Error)

	app := fiber.New()
	app.Put("/enrollments/:id/complete", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("enrollmentID", int(enrollment.ID))
		return c.Next()
	}, CompleteEnrollment)

	resp, err := app.Test(httptest.NewRequest("PUT", "/enrollments/1/complete", nil), 30000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	assert.True(t, updated.CertificateIssued)

	// second completion is rejected and no second certificate appears
	resp, err = app.Test(httptest.NewRequest("PUT", "/enrollments/1/complete", nil), 30000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var certCount int64
	require.NoError(t, db.Model(&models.Certificate{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&certCount).Error)
	assert.Equal(t, int64(1), certCount)
}

func TestValidateStatusTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.EnrollmentEnrolled, models.EnrollmentCompleted, true},
		{models.EnrollmentEnrolled, models.EnrollmentDropped, true},
		{models.EnrollmentEnrolled, models.EnrollmentFailed, true},
		{models.EnrollmentDropped, models.EnrollmentEnrolled, true},
		{models.EnrollmentFailed, models.EnrollmentEnrolled, true},
		{models.EnrollmentCompleted, models.EnrollmentEnrolled, false},
		{models.EnrollmentCompleted, models.EnrollmentDropped, false},
		{models.EnrollmentCompleted, models.EnrollmentFailed, false},
		{models.EnrollmentDropped, models.EnrollmentCompleted, false},
		{models.EnrollmentFailed, models.EnrollmentDropped, false},
		{models.EnrollmentEnrolled, models.EnrollmentEnrolled, true},
		{models.EnrollmentCompleted, models.EnrollmentCompleted, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, ValidateStatusTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
