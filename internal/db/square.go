package db

import (
	"time"

	"github.com/google/uuid"
)

type Square struct {
	ID        uint       `gorm:"primaryKey"`
	GameID    uint       `gorm:"not null;uniqueIndex:idx_squares_game_cell,priority:1"`
	Row       int        `gorm:"not null;uniqueIndex:idx_squares_game_cell,priority:2"`
	Col       int        `gorm:"not null;uniqueIndex:idx_squares_game_cell,priority:3"`
	UserEmail *string    `gorm:"size:255;index"`
	ProxyID   *uuid.UUID `gorm:"type:uuid;index"`
	UserName  string     `gorm:"size:255"`
	UserImage string     `gorm:"size:255"`
	ClaimedAt time.Time  `gorm:"not null"`
}

const (
	AxisRow = "row"
	AxisCol = "col"
)

type AxisNumber struct {
	ID          uint      `gorm:"primaryKey"`
	GameID      uint      `gorm:"not null;uniqueIndex:idx_axis_numbers_game_axis_position,priority:1"`
	Axis        string    `gorm:"size:3;not null;uniqueIndex:idx_axis_numbers_game_axis_position,priority:2"`
	Position    int       `gorm:"not null;uniqueIndex:idx_axis_numbers_game_axis_position,priority:3"`
	Value       int       `gorm:"not null"`
	GeneratedAt time.Time `gorm:"not null"`
}
