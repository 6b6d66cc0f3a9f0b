package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule statuses
const (
	ScheduleScheduled   = "scheduled"
	ScheduleInProgress  = "in-progress"
	ScheduleCompleted   = "completed"
	ScheduleCancelled   = "cancelled"
	ScheduleRescheduled = "rescheduled"
)

// Schedule is a single course session
type Schedule struct {
	gorm.Model
	CourseID      uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_schedule_course_session"`
	SessionNumber int       `json:"session_number" gorm:"not null;uniqueIndex:idx_schedule_course_session"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Location      string    `json:"location"`
	VirtualLink   string    `json:"virtual_link"`
	TrainerID     uint      `json:"trainer_id" gorm:"index"`
	Materials     string    `json:"materials"`
	SessionQrCode string    `json:"session_qr_code"`
	Status        string    `json:"status" gorm:"default:'scheduled'"` // scheduled, in-progress, completed, cancelled, rescheduled
	IsDeleted     bool      `gorm:"default:false"`
}
