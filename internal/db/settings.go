package db

import "time"

const settingsRowID = 1

// Settings is a single row of party-wide toggles.
type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	RevealEntries  bool      `gorm:"not null;default:false" json:"reveal_entries"`
	VotingActive   bool      `gorm:"not null;default:false" json:"voting_active"`
	VotingLocked   bool      `gorm:"not null;default:false" json:"voting_locked"`
	RevealResults  bool      `gorm:"not null;default:false" json:"reveal_results"`
	FinalHomeScore *int      `json:"final_home_score"`
	FinalAwayScore *int      `json:"final_away_score"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
