package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type guestRecord struct {
	Email    string
	Name     string
	IsAdmin  bool
	GameSlug string
	Role     string
	Notes    string
}

type GuestLoadResult struct {
	Users  int
	Grants int
}

// LoadGuests reads the guest list CSV and upserts approved users, their
// games and game access. Columns: email, name, is_admin, game_slug, role,
// notes. Only email is required.
func LoadGuests(ctx context.Context, store *Store, path string, defaultMaxSquares int, addedBy string) (GuestLoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return GuestLoadResult{}, err
	}
	defer file.Close()

	records, err := readGuests(file)
	if err != nil {
		return GuestLoadResult{}, err
	}

	var result GuestLoadResult
	for _, record := range records {
		if _, err := store.UpsertApprovedUser(ctx, ApprovedUser{
			Email:   record.Email,
			Name:    record.Name,
			IsAdmin: record.IsAdmin,
			AddedBy: addedBy,
			Notes:   record.Notes,
		}); err != nil {
			return result, fmt.Errorf("upsert %s: %w", record.Email, err)
		}
		result.Users++
		if record.GameSlug == "" {
			continue
		}
		game, err := store.EnsureGame(ctx, record.GameSlug, "", defaultMaxSquares)
		if err != nil {
			return result, fmt.Errorf("game %s: %w", record.GameSlug, err)
		}
		if err := store.GrantAccess(ctx, game.ID, record.Email, record.Role, addedBy); err != nil {
			return result, fmt.Errorf("grant %s on %s: %w", record.Email, record.GameSlug, err)
		}
		result.Grants++
	}
	return result, nil
}

func readGuests(r io.Reader) ([]guestRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []guestRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		email := normalizeEmail(column(row, 0))
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		isAdmin, _ := strconv.ParseBool(column(row, 2))
		records = append(records, guestRecord{
			Email:    email,
			Name:     column(row, 1),
			IsAdmin:  isAdmin,
			GameSlug: column(row, 3),
			Role:     strings.ToLower(column(row, 4)),
			Notes:    column(row, 5),
		})
	}
	return records, nil
}

func column(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
