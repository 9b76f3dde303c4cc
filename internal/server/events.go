package server

import (
	"log"

	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	eventSquareClaimed     = "square_claimed"
	eventSquareReleased    = "square_released"
	eventSquaresReleased   = "squares_released"
	eventSquaresCleared    = "squares_cleared"
	eventGameLocked        = "game_locked"
	eventGameUnlocked      = "game_unlocked"
	eventGameReset         = "game_reset"
	eventMaxSquaresSet     = "max_squares_set"
	eventScoreSet          = "score_set"
	eventScoresCleared     = "scores_cleared"
	eventFinalScoreSet     = "final_score_set"
	eventPredictionSaved   = "prediction_saved"
	eventPredictionDeleted = "prediction_deleted"
	eventProxyCreated      = "proxy_created"
	eventEntryCreated      = "entry_created"
	eventEntryUpdated      = "entry_updated"
	eventEntryDeleted      = "entry_deleted"
	eventVoteCast          = "vote_cast"
	eventSettingsChanged   = "settings_changed"
)

const defaultRecentEventLimit = 50

type EventPayload struct {
	GameSlug     string               `json:"game,omitempty"`
	Participant  string               `json:"participant,omitempty"`
	ProxyID      *uuid.UUID           `json:"proxy_id,omitempty"`
	Row          *int                 `json:"row,omitempty"`
	Col          *int                 `json:"col,omitempty"`
	Quarter      int                  `json:"quarter,omitempty"`
	HomeScore    *int                 `json:"home_score,omitempty"`
	AwayScore    *int                 `json:"away_score,omitempty"`
	PredictionID uint                 `json:"prediction_id,omitempty"`
	EntryID      uint                 `json:"entry_id,omitempty"`
	Setting      string               `json:"setting,omitempty"`
	Enabled      *bool                `json:"enabled,omitempty"`
	Count        int64                `json:"count,omitempty"`
	Axis         *squares.AxisNumbers `json:"axis,omitempty"`
}

func cell(row, col int) (*int, *int) {
	return &row, &col
}

// recordEvent appends to the audit log. A failed write is logged and
// never fails the request.
func (s *Server) recordEvent(c *gin.Context, game *squares.Game, eventType string, payload EventPayload) {
	var gameID *uint
	if game != nil {
		id := game.ID
		gameID = &id
		if payload.GameSlug == "" {
			payload.GameSlug = game.Slug
		}
	}
	actor := currentViewer(c).User.Email
	if err := s.store.RecordEvent(c.Request.Context(), gameID, actor, eventType, payload); err != nil {
		log.Printf("event persist failed type=%s actor=%s error=%v", eventType, actor, err)
	}
}
