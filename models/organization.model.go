package models

import (
	"gorm.io/gorm"
)

// Organization groups users, courses and resources under one tenant
type Organization struct {
	gorm.Model
	Name         string `json:"name" gorm:"unique;not null"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	IsDeleted    bool   `gorm:"default:false"`
}
