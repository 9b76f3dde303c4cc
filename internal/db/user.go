package db

import "time"

// ApprovedUser is the guest list. Every protected route requires a row.
type ApprovedUser struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Name      string    `gorm:"size:255"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	AddedBy   string    `gorm:"size:255"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
