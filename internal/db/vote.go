package db

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID                 uint       `gorm:"primaryKey"`
	VoterEmail         *string    `gorm:"size:255;uniqueIndex"`
	ProxyID            *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	VoterName          string     `gorm:"size:255"`
	FirstPlaceEntryID  uint       `gorm:"not null;index"`
	SecondPlaceEntryID uint       `gorm:"not null;index"`
	ThirdPlaceEntryID  uint       `gorm:"not null;index"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}
