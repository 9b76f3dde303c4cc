package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settings loads the singleton row. A missing row reads as all toggles
// off.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	var record Settings
	err := s.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Settings{ID: settingsRowID}, nil
	}
	return record, err
}

func (s *Store) SaveSettings(ctx context.Context, settings Settings) (Settings, error) {
	settings.ID = settingsRowID
	settings.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settings).Error
	return settings, err
}

// UpdateSettings applies change to the current settings and saves the
// result.
func (s *Store) UpdateSettings(ctx context.Context, change func(*Settings)) (Settings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return Settings{}, err
	}
	change(&current)
	return s.SaveSettings(ctx, current)
}
