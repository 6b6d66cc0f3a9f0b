package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Verification methods
const (
	VerificationQR     = "qr"
	VerificationManual = "manual"
	VerificationOther  = "other"
)

// Attendance records presence for one enrollment at one session.
// Unique per (enrollment, date, session number).
type Attendance struct {
	gorm.Model
	EnrollmentID  uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_attendance_enrollment_date_session"`
	ScheduleID    uint      `json:"schedule_id" gorm:"index"`
	Date          time.Time `json:"date" gorm:"not null;uniqueIndex:idx_attendance_enrollment_date_session"`
	SessionNumber int       `json:"session_number" gorm:"not null;uniqueIndex:idx_attendance_enrollment_date_session"`

	Status             string     `json:"status" gorm:"default:'absent'"` // present, absent, late, excused
	CheckInTime        *time.Time `json:"check_in_time"`
	CheckOutTime       *time.Time `json:"check_out_time"`
	Duration           int        `json:"duration"` // minutes
	VerificationMethod string     `json:"verification_method" gorm:"default:'manual'"` // qr, manual, other
	IsDeleted          bool       `gorm:"default:false"`
}
