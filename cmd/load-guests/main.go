package main

import (
	"context"
	"flag"
	"log"

	"party-squares/internal/config"
	"party-squares/internal/db"
)

func main() {
	filePath := flag.String("file", "guests.csv", "path to guest list csv")
	addedBy := flag.String("added-by", "load-guests", "recorded as added_by on new rows")
	migrateFirst := flag.Bool("migrate", false, "run auto-migration before loading")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if *migrateFirst {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	store := db.NewStore(conn)
	ctx := context.Background()
	if _, err := store.EnsureGame(ctx, cfg.DefaultGameSlug, "", cfg.DefaultMaxSquares); err != nil {
		log.Fatalf("failed to create default game: %v", err)
	}
	result, err := db.LoadGuests(ctx, store, *filePath, cfg.DefaultMaxSquares, *addedBy)
	if err != nil {
		log.Fatalf("failed to load guests: %v", err)
	}
	log.Printf("loaded guests users=%d grants=%d file=%s", result.Users, result.Grants, *filePath)
}
