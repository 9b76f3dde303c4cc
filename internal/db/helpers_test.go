package db

import (
	"context"
	"strings"
	"testing"

	"party-squares/internal/squares"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), gormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(openTestDB(t))
}

func seedGame(t *testing.T, store *Store, slug string, maxSquares int) squares.Game {
	t.Helper()
	game, err := store.EnsureGame(context.Background(), slug, strings.ToUpper(slug), maxSquares)
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return game
}
