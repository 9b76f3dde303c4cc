package db

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

func (s *Store) RecordEvent(ctx context.Context, gameID *uint, actor, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := Event{
		GameID:    gameID,
		Actor:     normalizeEmail(actor),
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Create(&event).Error
}

func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []Event
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	return events, err
}
