package utils

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

func seedEndedCourse(t *testing.T, db *gorm.DB) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:     "Fire Safety",
		Capacity:  20,
		Status:    models.CourseCompleted,
		StartDate: time.Now().AddDate(0, -2, 0),
		EndDate:   time.Now().AddDate(0, 0, -7),
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedEnrollment(t *testing.T, db *gorm.DB, courseID, userID uint) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: time.Now().AddDate(0, -2, 0),
		Status:         models.EnrollmentEnrolled,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func seedAttendance(t *testing.T, db *gorm.DB, enrollmentID uint, present, absent int) {
	t.Helper()
	session := 1
	base := time.Now().AddDate(0, -1, 0)
	for i := 0; i < present; i++ {
		require.NoError(t, db.Create(&models.Attendance{
			EnrollmentID:  enrollmentID,
			Date:          base.AddDate(0, 0, session),
			SessionNumber: session,
			Status:        models.AttendancePresent,
		}).Error)
		session++
	}
	for i := 0; i < absent; i++ {
		require.NoError(t, db.Create(&models.Attendance{
			EnrollmentID:  enrollmentID,
			Date:          base.AddDate(0, 0, session),
			SessionNumber: session,
			Status:        models.AttendanceAbsent,
		}).Error)
		session++
	}
}

func TestSweepCompletesHighAttendance(t *testing.T) {
	db := setupTestDB(t)
	course := seedEndedCourse(t, db)
	enrollment := seedEnrollment(t, db, course.ID, 1)
	seedAttendance(t, db, enrollment.ID, 4, 1) // 80%

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 1, transitions)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
}

func TestSweepFailsLowAttendance(t *testing.T) {
	db := setupTestDB(t)
	course := seedEndedCourse(t, db)
	enrollment := seedEnrollment(t, db, course.ID, 1)
	seedAttendance(t, db, enrollment.ID, 2, 3) // 40%

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 1, transitions)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentFailed, updated.Status)
	assert.Nil(t, updated.CompletionDate)
}

func TestSweepFlagsMiddleBand(t *testing.T) {
	db := setupTestDB(t)
	course := seedEndedCourse(t, db)
	enrollment := seedEnrollment(t, db, course.ID, 1)
	seedAttendance(t, db, enrollment.ID, 3, 2) // 60%

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 0, transitions)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentEnrolled, updated.Status)
	assert.Contains(t, updated.Notes, reviewFlag)

	// a second run must not duplicate the flag
	_, err = AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	var again models.Enrollment
	require.NoError(t, db.First(&again, enrollment.ID).Error)
	assert.Equal(t, updated.Notes, again.Notes)
}

func TestSweepSkipsEnrollmentsWithoutRecords(t *testing.T) {
	db := setupTestDB(t)
	course := seedEndedCourse(t, db)
	enrollment := seedEnrollment(t, db, course.ID, 1)

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 0, transitions)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentEnrolled, updated.Status)
}

func TestSweepIgnoresRunningCourses(t *testing.T) {
	db := setupTestDB(t)
	course := &models.Course{
		Title:     "Ongoing Course",
		Capacity:  20,
		Status:    models.CourseActive,
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(course).Error)
	enrollment := seedEnrollment(t, db, course.ID, 1)
	seedAttendance(t, db, enrollment.ID, 0, 5)

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 0, transitions)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentEnrolled, updated.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	course := seedEndedCourse(t, db)
	done := seedEnrollment(t, db, course.ID, 1)
	seedAttendance(t, db, done.ID, 5, 0)
	failed := seedEnrollment(t, db, course.ID, 2)
	seedAttendance(t, db, failed.ID, 1, 4)

	transitions, err := AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 2, transitions)

	transitions, err = AutoUpdateEnrollmentStatuses(db)
	require.NoError(t, err)
	assert.Equal(t, 0, transitions)
}
