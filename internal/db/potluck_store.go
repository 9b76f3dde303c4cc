package db

import (
	"context"
	"errors"

	"party-squares/internal/potluck"
	"party-squares/internal/squares"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func toEntry(record Entry) potluck.Entry {
	return potluck.Entry{
		ID:          record.ID,
		UserEmail:   stringValue(record.UserEmail),
		ProxyID:     record.ProxyID,
		UserName:    record.UserName,
		Title:       record.Title,
		Description: record.Description,
		NeedsPower:  record.NeedsPower,
		Notes:       record.Notes,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toVote(record Vote) potluck.Vote {
	return potluck.Vote{
		ID:                 record.ID,
		VoterEmail:         stringValue(record.VoterEmail),
		ProxyID:            record.ProxyID,
		VoterName:          record.VoterName,
		FirstPlaceEntryID:  record.FirstPlaceEntryID,
		SecondPlaceEntryID: record.SecondPlaceEntryID,
		ThirdPlaceEntryID:  record.ThirdPlaceEntryID,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
}

func (s *Store) ListEntries(ctx context.Context) ([]potluck.Entry, error) {
	var records []Entry
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]potluck.Entry, 0, len(records))
	for _, record := range records {
		out = append(out, toEntry(record))
	}
	return out, nil
}

func (s *Store) EntryByID(ctx context.Context, id uint) (potluck.Entry, error) {
	var record Entry
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return potluck.Entry{}, potluck.ErrEntryNotFound
		}
		return potluck.Entry{}, err
	}
	return toEntry(record), nil
}

func (s *Store) EntryByParticipant(ctx context.Context, p squares.Participant) (potluck.Entry, error) {
	var record Entry
	if err := s.db.WithContext(ctx).Scopes(ownerScope(p, "user_email")).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return potluck.Entry{}, potluck.ErrEntryNotFound
		}
		return potluck.Entry{}, err
	}
	return toEntry(record), nil
}

func (s *Store) InsertEntry(ctx context.Context, entry *potluck.Entry) error {
	record := Entry{
		UserEmail:   stringPtr(normalizeEmail(entry.UserEmail)),
		ProxyID:     entry.ProxyID,
		UserName:    entry.UserName,
		Title:       entry.Title,
		Description: entry.Description,
		NeedsPower:  entry.NeedsPower,
		Notes:       entry.Notes,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return potluck.ErrEntryExists
		}
		return err
	}
	*entry = toEntry(record)
	return nil
}

func (s *Store) UpdateEntry(ctx context.Context, id uint, owner squares.Participant, in potluck.EntryInput) (int64, error) {
	result := s.db.WithContext(ctx).Model(&Entry{}).
		Where("id = ?", id).
		Scopes(ownerScope(owner, "user_email")).
		Updates(map[string]any{
			"title":       in.Title,
			"description": in.Description,
			"needs_power": in.NeedsPower,
			"notes":       in.Notes,
		})
	return result.RowsAffected, result.Error
}

func (s *Store) DeleteEntry(ctx context.Context, id uint, owner *squares.Participant) (int64, error) {
	tx := s.db.WithContext(ctx).Where("id = ?", id)
	if owner != nil {
		tx = tx.Scopes(ownerScope(*owner, "user_email"))
	}
	result := tx.Delete(&Entry{})
	return result.RowsAffected, result.Error
}

func (s *Store) ListVotes(ctx context.Context) ([]potluck.Vote, error) {
	var records []Vote
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]potluck.Vote, 0, len(records))
	for _, record := range records {
		out = append(out, toVote(record))
	}
	return out, nil
}

func (s *Store) VoteByParticipant(ctx context.Context, p squares.Participant) (potluck.Vote, error) {
	var record Vote
	if err := s.db.WithContext(ctx).Scopes(ownerScope(p, "voter_email")).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return potluck.Vote{}, potluck.ErrVoteNotFound
		}
		return potluck.Vote{}, err
	}
	return toVote(record), nil
}

func (s *Store) UpsertVote(ctx context.Context, vote *potluck.Vote) error {
	record := Vote{
		VoterEmail:         stringPtr(normalizeEmail(vote.VoterEmail)),
		ProxyID:            vote.ProxyID,
		VoterName:          vote.VoterName,
		FirstPlaceEntryID:  vote.FirstPlaceEntryID,
		SecondPlaceEntryID: vote.SecondPlaceEntryID,
		ThirdPlaceEntryID:  vote.ThirdPlaceEntryID,
		CreatedAt:          vote.CreatedAt,
		UpdatedAt:          vote.UpdatedAt,
	}
	conflict := []clause.Column{{Name: "voter_email"}}
	owner := squares.Participant{Email: vote.VoterEmail}
	if vote.ProxyID != nil {
		conflict = []clause.Column{{Name: "proxy_id"}}
		owner = squares.Participant{ProxyID: *vote.ProxyID}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: conflict,
			DoUpdates: clause.AssignmentColumns([]string{
				"voter_name", "first_place_entry_id", "second_place_entry_id", "third_place_entry_id", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		var saved Vote
		if err := tx.Scopes(ownerScope(owner, "voter_email")).First(&saved).Error; err != nil {
			return err
		}
		*vote = toVote(saved)
		return nil
	})
}

func (s *Store) VotingState(ctx context.Context) (potluck.VotingState, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return potluck.VotingState{}, err
	}
	return potluck.VotingState{Active: settings.VotingActive, Locked: settings.VotingLocked}, nil
}
