package db

import (
	"time"

	"github.com/google/uuid"
)

// Proxy stands in for a guest who is not signed in. GameID is nil for
// potluck proxies.
type Proxy struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	GameID    *uint     `gorm:"index"`
	Name      string    `gorm:"size:255;not null"`
	CreatedBy string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
