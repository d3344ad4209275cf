package model

import (
	"time"

	"gorm.io/gorm"
)

// Company is the tenant owning candidates and (optionally) a private
// question bank. Credits are the billing unit: completing one exam
// deducts one credit.
type Company struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `json:"name" gorm:"not null;uniqueIndex"`
	Email   string `json:"email,omitempty"`
	Credits int    `json:"credits" gorm:"default:0"`
	Active  bool   `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
