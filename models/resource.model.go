package models

import (
	"gorm.io/gorm"
)

// Resource types
const (
	ResourceRoom      = "room"
	ResourceEquipment = "equipment"
	ResourceMaterial  = "material"
	ResourceOther     = "other"
)

// Resource is a bookable room, equipment or material owned by an organization
type Resource struct {
	gorm.Model
	Name                  string `json:"name" gorm:"not null"`
	Type                  string `json:"type" gorm:"default:'other'"` // room, equipment, material, other
	Capacity              int    `json:"capacity"`
	Location              string `json:"location"`
	Availability          bool   `json:"availability" gorm:"default:true"`
	OrganizationID        *uint  `json:"organization_id" gorm:"index"`
	AccessibilityFeatures string `json:"accessibility_features"`
	IsDeleted             bool   `gorm:"default:false"`
}
