package db

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID          uint       `gorm:"primaryKey"`
	UserEmail   *string    `gorm:"size:255;uniqueIndex"`
	ProxyID     *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	UserName    string     `gorm:"size:255"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text;not null"`
	NeedsPower  bool       `gorm:"not null;default:false"`
	Notes       string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}
