package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"party-squares/internal/squares"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func toGame(record Game) squares.Game {
	return squares.Game{
		ID:                record.ID,
		Slug:              record.Slug,
		Name:              record.Name,
		IsLocked:          record.IsLocked,
		MaxSquaresPerUser: record.MaxSquaresPerUser,
	}
}

func toSquare(record Square) squares.Square {
	return squares.Square{
		ID:        record.ID,
		GameID:    record.GameID,
		Row:       record.Row,
		Col:       record.Col,
		UserEmail: stringValue(record.UserEmail),
		ProxyID:   record.ProxyID,
		UserName:  record.UserName,
		UserImage: record.UserImage,
		ClaimedAt: record.ClaimedAt,
	}
}

func toPrediction(record ScorePrediction) squares.Prediction {
	return squares.Prediction{
		ID:        record.ID,
		GameID:    record.GameID,
		UserEmail: stringValue(record.UserEmail),
		ProxyID:   record.ProxyID,
		UserName:  record.UserName,
		Home:      record.HomeScore,
		Away:      record.AwayScore,
		IsProxy:   record.IsProxy,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ownerScope restricts a query to rows owned by p.
func ownerScope(p squares.Participant, emailColumn string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if p.IsProxy() {
			return tx.Where("proxy_id = ?", p.ProxyID)
		}
		return tx.Where("proxy_id IS NULL").Where(emailColumn+" = ?", normalizeEmail(p.Email))
	}
}

func cellCondition(gameID uint, row, col int) map[string]any {
	return map[string]any{"game_id": gameID, "row": row, "col": col}
}

func (s *Store) GameBySlug(ctx context.Context, slug string) (squares.Game, error) {
	var record Game
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return squares.Game{}, squares.ErrGameNotFound
		}
		return squares.Game{}, err
	}
	return toGame(record), nil
}

func (s *Store) ListSquares(ctx context.Context, gameID uint) ([]squares.Square, error) {
	var records []Square
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]squares.Square, 0, len(records))
	for _, record := range records {
		out = append(out, toSquare(record))
	}
	return out, nil
}

func (s *Store) CountSquares(ctx context.Context, gameID uint, owner squares.Participant) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Square{}).
		Where("game_id = ?", gameID).
		Scopes(ownerScope(owner, "user_email")).
		Count(&count).Error
	return int(count), err
}

func (s *Store) InsertSquare(ctx context.Context, square *squares.Square) error {
	record := Square{
		GameID:    square.GameID,
		Row:       square.Row,
		Col:       square.Col,
		UserEmail: stringPtr(normalizeEmail(square.UserEmail)),
		ProxyID:   square.ProxyID,
		UserName:  square.UserName,
		UserImage: square.UserImage,
		ClaimedAt: square.ClaimedAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return squares.ErrSquareTaken
		}
		return err
	}
	*square = toSquare(record)
	return nil
}

func (s *Store) DeleteSquare(ctx context.Context, gameID uint, row, col int, owner *squares.Participant) (int64, error) {
	tx := s.db.WithContext(ctx).Where(cellCondition(gameID, row, col))
	if owner != nil {
		tx = tx.Scopes(ownerScope(*owner, "user_email"))
	}
	result := tx.Delete(&Square{})
	return result.RowsAffected, result.Error
}

func (s *Store) DeleteSquaresByParticipant(ctx context.Context, gameID uint, owner squares.Participant) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Scopes(ownerScope(owner, "user_email")).
		Delete(&Square{})
	return result.RowsAffected, result.Error
}

func (s *Store) ClearSquares(ctx context.Context, gameID uint) error {
	return s.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&Square{}).Error
}

func (s *Store) AxisNumbers(ctx context.Context, gameID uint) (squares.AxisNumbers, error) {
	var records []AxisNumber
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Find(&records).Error; err != nil {
		return squares.AxisNumbers{}, err
	}
	axis := squares.EmptyAxis()
	for _, record := range records {
		if record.Position < 0 || record.Position >= squares.GridSize {
			continue
		}
		switch record.Axis {
		case AxisRow:
			axis.Rows[record.Position] = record.Value
		case AxisCol:
			axis.Cols[record.Position] = record.Value
		}
	}
	return axis, nil
}

// LockWithAxis replaces the game's axis numbers and locks it in one
// transaction.
func (s *Store) LockWithAxis(ctx context.Context, gameID uint, axis squares.AxisNumbers) error {
	now := time.Now().UTC()
	records := make([]AxisNumber, 0, squares.GridSize*2)
	for position := 0; position < squares.GridSize; position++ {
		records = append(records,
			AxisNumber{GameID: gameID, Axis: AxisRow, Position: position, Value: axis.Rows[position], GeneratedAt: now},
			AxisNumber{GameID: gameID, Axis: AxisCol, Position: position, Value: axis.Cols[position], GeneratedAt: now},
		)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&AxisNumber{}).Error; err != nil {
			return fmt.Errorf("delete axis numbers: %w", err)
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert axis numbers: %w", err)
		}
		return setLocked(tx, gameID, true)
	})
}

func setLocked(tx *gorm.DB, gameID uint, locked bool) error {
	result := tx.Model(&Game{}).Where("id = ?", gameID).Update("is_locked", locked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return squares.ErrGameNotFound
	}
	return nil
}

func (s *Store) SetLocked(ctx context.Context, gameID uint, locked bool) error {
	return setLocked(s.db.WithContext(ctx), gameID, locked)
}

func (s *Store) SetMaxSquares(ctx context.Context, gameID uint, max int) error {
	result := s.db.WithContext(ctx).Model(&Game{}).Where("id = ?", gameID).Update("max_squares_per_user", max)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return squares.ErrGameNotFound
	}
	return nil
}

func (s *Store) QuarterScores(ctx context.Context) ([]squares.QuarterScore, error) {
	var records []QuarterScore
	if err := s.db.WithContext(ctx).Order("quarter").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]squares.QuarterScore, 0, len(records))
	for _, record := range records {
		out = append(out, squares.QuarterScore{
			Quarter:   record.Quarter,
			Home:      record.HomeScore,
			Away:      record.AwayScore,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Store) UpsertQuarterScore(ctx context.Context, score squares.QuarterScore) error {
	record := QuarterScore{
		Quarter:   score.Quarter,
		HomeScore: score.Home,
		AwayScore: score.Away,
		UpdatedAt: score.UpdatedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quarter"}},
		DoUpdates: clause.AssignmentColumns([]string{"home_score", "away_score", "updated_at"}),
	}).Create(&record).Error
}

func clearQuarterScores(tx *gorm.DB) error {
	return tx.Where("1 = 1").Delete(&QuarterScore{}).Error
}

func (s *Store) ClearQuarterScores(ctx context.Context) error {
	return clearQuarterScores(s.db.WithContext(ctx))
}

func (s *Store) ListPredictions(ctx context.Context, gameID uint) ([]squares.Prediction, error) {
	var records []ScorePrediction
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]squares.Prediction, 0, len(records))
	for _, record := range records {
		out = append(out, toPrediction(record))
	}
	return out, nil
}

// UpsertPrediction keeps one prediction per participant and game. The
// first creation time survives updates so ranking ties stay stable.
func (s *Store) UpsertPrediction(ctx context.Context, prediction *squares.Prediction) error {
	record := ScorePrediction{
		GameID:    prediction.GameID,
		UserEmail: stringPtr(normalizeEmail(prediction.UserEmail)),
		ProxyID:   prediction.ProxyID,
		UserName:  prediction.UserName,
		HomeScore: prediction.Home,
		AwayScore: prediction.Away,
		IsProxy:   prediction.IsProxy,
		CreatedBy: prediction.CreatedBy,
		CreatedAt: prediction.CreatedAt,
		UpdatedAt: prediction.UpdatedAt,
	}
	conflict := []clause.Column{{Name: "game_id"}, {Name: "user_email"}}
	owner := squares.Participant{Email: prediction.UserEmail}
	if prediction.ProxyID != nil {
		conflict = []clause.Column{{Name: "game_id"}, {Name: "proxy_id"}}
		owner = squares.Participant{ProxyID: *prediction.ProxyID}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   conflict,
			DoUpdates: clause.AssignmentColumns([]string{"user_name", "home_score", "away_score", "created_by", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return err
		}
		var saved ScorePrediction
		if err := tx.Where("game_id = ?", prediction.GameID).
			Scopes(ownerScope(owner, "user_email")).
			First(&saved).Error; err != nil {
			return err
		}
		*prediction = toPrediction(saved)
		return nil
	})
}

func (s *Store) DeletePrediction(ctx context.Context, gameID, id uint) (int64, error) {
	result := s.db.WithContext(ctx).Where("game_id = ? AND id = ?", gameID, id).Delete(&ScorePrediction{})
	return result.RowsAffected, result.Error
}

func (s *Store) ClearPredictions(ctx context.Context, gameID uint) error {
	return s.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&ScorePrediction{}).Error
}

// ResetGame clears the game's squares and predictions, the shared quarter
// scores, and unlocks the game.
func (s *Store) ResetGame(ctx context.Context, gameID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&Square{}).Error; err != nil {
			return err
		}
		if err := clearQuarterScores(tx); err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&ScorePrediction{}).Error; err != nil {
			return err
		}
		return setLocked(tx, gameID, false)
	})
}
