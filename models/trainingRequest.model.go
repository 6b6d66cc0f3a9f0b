package models

import (
	"time"

	"gorm.io/gorm"
)

// Training request statuses
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestCancelled = "cancelled"
)

// TrainingRequest is a trainee's ask to join a course, pending manager/admin
// approval. Only pending requests may be updated or deleted; approval and
// rejection are one-way.
type TrainingRequest struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	RequestDate time.Time `json:"request_date"`
	Status      string    `json:"status" gorm:"default:'pending'"` // pending, approved, rejected, cancelled

	Justification             string     `json:"justification" gorm:"not null"`
	ApproverID                *uint      `json:"approver_id"`
	ApprovalDate              *time.Time `json:"approval_date"`
	ApprovalNotes             string     `json:"approval_notes"`
	AccessibilityRequirements string     `json:"accessibility_requirements"`
	IsDeleted                 bool       `gorm:"default:false"`
}
