package db

import (
	"party-squares/internal/potluck"
	"party-squares/internal/squares"

	"gorm.io/gorm"
)

// Store is the GORM-backed persistence for every domain package.
type Store struct {
	db *gorm.DB
}

var (
	_ squares.Store = (*Store)(nil)
	_ potluck.Store = (*Store)(nil)
)

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
