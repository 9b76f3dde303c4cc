package squares

import (
	"time"

	"github.com/google/uuid"
)

const (
	GridSize = 10
	Quarters = 4

	MinSquaresPerUser = 1
	MaxSquaresPerUser = 100
)

type Game struct {
	ID                uint   `json:"id"`
	Slug              string `json:"slug"`
	Name              string `json:"name"`
	IsLocked          bool   `json:"is_locked"`
	MaxSquaresPerUser int    `json:"max_squares_per_user"`
}

// Participant owns squares and predictions. Exactly one of Email or
// ProxyID identifies it; Name and Image are display fields only.
type Participant struct {
	Email   string
	ProxyID uuid.UUID
	Name    string
	Image   string
}

func (p Participant) IsProxy() bool {
	return p.ProxyID != uuid.Nil
}

func (p Participant) Valid() bool {
	return (p.Email != "") != p.IsProxy()
}

func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

type Square struct {
	ID        uint       `json:"id"`
	GameID    uint       `json:"game_id"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	UserEmail string     `json:"user_email,omitempty"`
	ProxyID   *uuid.UUID `json:"proxy_id,omitempty"`
	UserName  string     `json:"user_name"`
	UserImage string     `json:"user_image,omitempty"`
	ClaimedAt time.Time  `json:"claimed_at"`
}

func (s Square) OwnedBy(p Participant) bool {
	if p.IsProxy() {
		return s.ProxyID != nil && *s.ProxyID == p.ProxyID
	}
	return s.ProxyID == nil && s.UserEmail != "" && s.UserEmail == p.Email
}

// Grid is indexed [row][col]; nil marks an unclaimed cell.
type Grid [GridSize][GridSize]*Square

// AxisNumbers maps each grid position to its assigned digit. A value of
// -1 means the position has no digit (the game was never locked).
type AxisNumbers struct {
	Rows [GridSize]int `json:"rows"`
	Cols [GridSize]int `json:"cols"`
}

type QuarterScore struct {
	Quarter   int       `json:"quarter"`
	Home      *int      `json:"home_score"`
	Away      *int      `json:"away_score"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuarterResult struct {
	Quarter       int     `json:"quarter"`
	HomeLastDigit *int    `json:"home_last_digit"`
	AwayLastDigit *int    `json:"away_last_digit"`
	Row           *int    `json:"row"`
	Col           *int    `json:"col"`
	WinningSquare *Square `json:"winning_square"`
}

type Prediction struct {
	ID        uint       `json:"id"`
	GameID    uint       `json:"game_id"`
	UserEmail string     `json:"user_email,omitempty"`
	ProxyID   *uuid.UUID `json:"proxy_id,omitempty"`
	UserName  string     `json:"user_name"`
	Home      int        `json:"home_score"`
	Away      int        `json:"away_score"`
	IsProxy   bool       `json:"is_proxy"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type PredictionResult struct {
	Prediction Prediction `json:"prediction"`
	Diff       *int       `json:"diff"`
	Rank       int        `json:"rank"`
	Winner     bool       `json:"winner"`
}

// Board is the polled view of an unlocked game for one viewer.
type Board struct {
	Grid              Grid `json:"grid"`
	UserSquareCount   int  `json:"user_square_count"`
	MaxSquaresPerUser int  `json:"max_squares_per_user"`
}
