package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
	EnrollmentFailed    = "failed"
)

// Enrollment tracks a user's participation in a course.
// The composite unique index is the backstop against double-enrollment
// when two requests race past the application-level check.
type Enrollment struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID          uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	EnrollmentDate    time.Time  `json:"enrollment_date"`
	Status            string     `json:"status" gorm:"default:'enrolled'"` // enrolled, completed, dropped, failed
	CompletionDate    *time.Time `json:"completion_date"`
	TrainingRequestID *uint      `json:"training_request_id" gorm:"index"`
	CertificateIssued bool       `json:"certificate_issued" gorm:"default:false"`
	PreTestScore      *float64   `json:"pre_test_score"`
	PostTestScore     *float64   `json:"post_test_score"`
	Notes             string     `json:"notes"`
	IsDeleted         bool       `gorm:"default:false"`
}
