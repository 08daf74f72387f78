package models

import (
	"time"

	"gorm.io/gorm"
)

// Record status values. A status column replaces the usual is_active
// boolean so further states can be added without schema churn.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type FileLog struct {
	gorm.Model
	ID           uint   `gorm:"primaryKey"`
	Filename     string `gorm:"unique;not null"`
	DateModified time.Time
}
