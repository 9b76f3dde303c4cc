package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"party-squares/internal/squares"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reservedSlugs collide with static routes under /api/squares.
var reservedSlugs = map[string]bool{"results": true}

type Membership struct {
	Game squares.Game `json:"game"`
	Role string       `json:"role"`
}

func (s *Store) ApprovedUser(ctx context.Context, email string) (ApprovedUser, error) {
	var record ApprovedUser
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovedUser{}, ErrNotApproved
		}
		return ApprovedUser{}, err
	}
	return record, nil
}

// UpsertApprovedUser adds the user to the guest list or refreshes their
// name, admin flag and notes.
func (s *Store) UpsertApprovedUser(ctx context.Context, user ApprovedUser) (ApprovedUser, error) {
	user.Email = normalizeEmail(user.Email)
	if user.Email == "" {
		return ApprovedUser{}, errors.New("email is required")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_admin", "notes", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return ApprovedUser{}, err
	}
	return s.ApprovedUser(ctx, user.Email)
}

func (s *Store) UpdateUserName(ctx context.Context, email, name string) error {
	result := s.db.WithContext(ctx).Model(&ApprovedUser{}).
		Where("email = ?", normalizeEmail(email)).
		Update("name", strings.TrimSpace(name))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotApproved
	}
	return nil
}

// Memberships lists the games a user can see. Global admins see every
// game as admin.
func (s *Store) Memberships(ctx context.Context, email string, isAdmin bool) ([]Membership, error) {
	if isAdmin {
		var games []Game
		if err := s.db.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
			return nil, err
		}
		out := make([]Membership, 0, len(games))
		for _, game := range games {
			out = append(out, Membership{Game: toGame(game), Role: RoleAdmin})
		}
		return out, nil
	}

	var access []GameAccess
	if err := s.db.WithContext(ctx).Where("user_email = ?", normalizeEmail(email)).Find(&access).Error; err != nil {
		return nil, err
	}
	if len(access) == 0 {
		return nil, nil
	}
	roles := make(map[uint]string, len(access))
	ids := make([]uint, 0, len(access))
	for _, row := range access {
		roles[row.GameID] = row.Role
		ids = append(ids, row.GameID)
	}
	var games []Game
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	out := make([]Membership, 0, len(games))
	for _, game := range games {
		out = append(out, Membership{Game: toGame(game), Role: roles[game.ID]})
	}
	return out, nil
}

// GameRole returns the user's role in the game, or "" without access.
func (s *Store) GameRole(ctx context.Context, gameID uint, email string) (string, error) {
	var access GameAccess
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND user_email = ?", gameID, normalizeEmail(email)).
		First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return access.Role, nil
}

func (s *Store) GrantAccess(ctx context.Context, gameID uint, email, role, addedBy string) error {
	if role != RoleAdmin {
		role = RolePlayer
	}
	access := GameAccess{
		GameID:    gameID,
		UserEmail: normalizeEmail(email),
		Role:      role,
		AddedBy:   addedBy,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "user_email"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&access).Error
}

// EnsureGame returns the game with slug, creating it when missing.
func (s *Store) EnsureGame(ctx context.Context, slug, name string, maxSquares int) (squares.Game, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return squares.Game{}, errors.New("game slug is required")
	}
	if reservedSlugs[strings.ToLower(slug)] {
		return squares.Game{}, fmt.Errorf("%q: %w", slug, ErrReservedSlug)
	}
	if name == "" {
		name = slug
	}
	if maxSquares < squares.MinSquaresPerUser || maxSquares > squares.MaxSquaresPerUser {
		maxSquares = 5
	}
	record := Game{Slug: slug, Name: name, MaxSquaresPerUser: maxSquares}
	if err := s.db.WithContext(ctx).Where(Game{Slug: slug}).FirstOrCreate(&record).Error; err != nil {
		return squares.Game{}, err
	}
	return toGame(record), nil
}
