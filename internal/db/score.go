package db

import (
	"time"

	"github.com/google/uuid"
)

// QuarterScore is shared by every game.
type QuarterScore struct {
	ID        uint      `gorm:"primaryKey"`
	Quarter   int       `gorm:"uniqueIndex;not null"`
	HomeScore *int
	AwayScore *int
	UpdatedAt time.Time `gorm:"not null"`
}

type ScorePrediction struct {
	ID        uint       `gorm:"primaryKey"`
	GameID    uint       `gorm:"not null;uniqueIndex:idx_predictions_game_user,priority:1;uniqueIndex:idx_predictions_game_proxy,priority:1"`
	UserEmail *string    `gorm:"size:255;uniqueIndex:idx_predictions_game_user,priority:2"`
	ProxyID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_predictions_game_proxy,priority:2"`
	UserName  string     `gorm:"size:255"`
	HomeScore int        `gorm:"not null"`
	AwayScore int        `gorm:"not null"`
	IsProxy   bool       `gorm:"not null;default:false"`
	CreatedBy string     `gorm:"size:255"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}
