package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleTrainee = "trainee"
	RoleTrainer = "trainer"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Disability types
const (
	DisabilityVisual    = "visual"
	DisabilityHearing   = "hearing"
	DisabilityPhysical  = "physical"
	DisabilityCognitive = "cognitive"
	DisabilityOther     = "other"
	DisabilityNone      = "none"
)

type User struct {
	gorm.Model
	FirstName          string `json:"first_name" gorm:"default:''"`
	LastName           string `json:"last_name" gorm:"default:''"`
	Email              string `json:"email" gorm:"unique;not null"`
	Password           string `json:"-" gorm:"not null"`
	Role               string `json:"role" gorm:"default:'trainee'"` // trainee, trainer, manager, admin
	OrganizationID     *uint  `json:"organization_id" gorm:"index"`
	HasDisability      bool   `json:"has_disability" gorm:"default:false"`
	DisabilityType     string `json:"disability_type" gorm:"default:'none'"`
	AccessibilityNeeds string `json:"accessibility_needs"`

	IsVerified  bool `json:"is_verified" gorm:"default:false"`
	TwoFAStatus bool `json:"two_fa_status" gorm:"default:false"`

	VerificationToken  string     `json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	ResetToken         string     `json:"-"`
	ResetExpiry        *time.Time `json:"-"`
	TwoFACode          string     `json:"-"`
	TwoFAExpiry        *time.Time `json:"-"`

	LastLogin *time.Time `json:"last_login"`
	IsDeleted bool       `gorm:"default:false"`
}

// FullName joins first and last name for emails and certificates
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
