package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProxy always makes a new participant, even when the name is
// already in use.
func (s *Store) CreateProxy(ctx context.Context, gameID *uint, name, createdBy string) (Proxy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Proxy{}, errors.New("proxy name is required")
	}
	record := Proxy{
		PublicID:  uuid.New(),
		GameID:    gameID,
		Name:      name,
		CreatedBy: normalizeEmail(createdBy),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return Proxy{}, err
	}
	return record, nil
}

func (s *Store) ProxyByPublicID(ctx context.Context, id uuid.UUID) (Proxy, error) {
	var record Proxy
	if err := s.db.WithContext(ctx).Where("public_id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Proxy{}, ErrProxyNotFound
		}
		return Proxy{}, err
	}
	return record, nil
}

// ListProxies returns the proxies of one game, or the potluck proxies
// when gameID is nil.
func (s *Store) ListProxies(ctx context.Context, gameID *uint) ([]Proxy, error) {
	tx := s.db.WithContext(ctx).Order("id")
	if gameID == nil {
		tx = tx.Where("game_id IS NULL")
	} else {
		tx = tx.Where("game_id = ?", *gameID)
	}
	var records []Proxy
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
