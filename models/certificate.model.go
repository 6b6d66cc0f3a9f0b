package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate statuses
const (
	CertificateIssued  = "issued"
	CertificateRevoked = "revoked"
	CertificateExpired = "expired"
)

// Certificate is issued exactly once per completed enrollment
type Certificate struct {
	gorm.Model
	UserID       uint `json:"user_id" gorm:"index;not null"`
	CourseID     uint `json:"course_id" gorm:"index;not null"`
	EnrollmentID uint `json:"enrollment_id" gorm:"index;not null"`

	CertificateNumber  string    `json:"certificate_number" gorm:"unique;not null"`
	IssueDate          time.Time `json:"issue_date"`
	VerificationURL    string    `json:"verification_url"`
	VerificationQrCode string    `json:"verification_qr_code"`
	PdfURL             string    `json:"pdf_url"`
	Status             string    `json:"status" gorm:"default:'issued'"` // issued, revoked, expired
	IsDeleted          bool      `gorm:"default:false"`
}
