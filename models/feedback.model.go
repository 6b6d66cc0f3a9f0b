package models

import (
	"gorm.io/gorm"
)

// Feedback is one rating per user per course. When IsAnonymous is set the
// user identity is masked in read responses only, never in storage.
type Feedback struct {
	gorm.Model
	UserID       uint `json:"user_id" gorm:"not null;uniqueIndex:idx_feedback_user_course"`
	CourseID     uint `json:"course_id" gorm:"not null;uniqueIndex:idx_feedback_user_course"`
	EnrollmentID uint `json:"enrollment_id" gorm:"index"`

	OverallRating       int  `json:"overall_rating" gorm:"not null"` // 1-5
	ContentRating       *int `json:"content_rating"`
	InstructorRating    *int `json:"instructor_rating"`
	FacilitiesRating    *int `json:"facilities_rating"`
	AccessibilityRating *int `json:"accessibility_rating"`

	Comments    string `json:"comments"`
	IsAnonymous bool   `json:"is_anonymous" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
