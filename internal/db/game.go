package db

import "time"

const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

type Game struct {
	ID                uint      `gorm:"primaryKey"`
	Slug              string    `gorm:"size:100;uniqueIndex;not null"`
	Name              string    `gorm:"size:255;not null"`
	IsLocked          bool      `gorm:"not null;default:false"`
	MaxSquaresPerUser int       `gorm:"not null;default:5"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
	Squares           []Square
	AxisNumbers       []AxisNumber
}

type GameAccess struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_game_access_game_user,priority:1"`
	UserEmail string    `gorm:"size:255;not null;uniqueIndex:idx_game_access_game_user,priority:2"`
	Role      string    `gorm:"size:20;not null;default:player"`
	AddedBy   string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

func (GameAccess) TableName() string {
	return "game_access"
}
