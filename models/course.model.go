package models

import (
	"time"

	"gorm.io/gorm"
)

// Course statuses
const (
	CourseScheduled = "scheduled"
	CourseActive    = "active"
	CourseCompleted = "completed"
	CourseCancelled = "cancelled"
)

type Course struct {
	gorm.Model
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    int       `json:"duration"` // hours
	Capacity    int       `json:"capacity" gorm:"default:20"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	IsVirtual   bool      `json:"is_virtual" gorm:"default:false"`
	MeetingLink string    `json:"meeting_link"`

	InstructorID   uint  `json:"instructor_id" gorm:"index"`
	OrganizationID *uint `json:"organization_id" gorm:"index"`

	Prerequisites         string `json:"prerequisites"`
	Status                string `json:"status" gorm:"default:'scheduled'"` // scheduled, active, completed, cancelled
	AccessibilityFeatures string `json:"accessibility_features"`            // comma separated
	Tags                  string `json:"tags"`                              // comma separated

	Materials []CourseMaterial `json:"materials,omitempty" gorm:"foreignKey:CourseID"`
	IsDeleted bool             `gorm:"default:false"`
}

// CourseMaterial is an uploaded document attached to a course
type CourseMaterial struct {
	gorm.Model
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	Title      string    `json:"title"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `json:"upload_date"`
	IsDeleted  bool      `gorm:"default:false"`
}
