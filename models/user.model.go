package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ExternalID   string    `json:"external_id" gorm:"uniqueIndex;not null"` // Subject ID at the identity provider
	Email        string    `json:"email" gorm:"unique;not null"`
	Name         string    `json:"name" gorm:"default:''"`
	Role         string    `json:"role" gorm:"default:'STUDENT'"` // STUDENT, EDUCATOR, ADMIN
	ProfileImage string    `json:"profile_image" gorm:"default:''"`
	LastSeen     time.Time `json:"last_seen" gorm:"default:NULL"`
	IsDeleted    bool      `gorm:"default:false"`
}
