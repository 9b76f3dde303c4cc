package squares

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Store persists games, squares, axis numbers, scores and predictions.
// InsertSquare must return ErrSquareTaken when the storage layer rejects
// a second occupant for the same cell.
type Store interface {
	GameBySlug(ctx context.Context, slug string) (Game, error)
	ListSquares(ctx context.Context, gameID uint) ([]Square, error)
	CountSquares(ctx context.Context, gameID uint, owner Participant) (int, error)
	InsertSquare(ctx context.Context, square *Square) error
	DeleteSquare(ctx context.Context, gameID uint, row, col int, owner *Participant) (int64, error)
	DeleteSquaresByParticipant(ctx context.Context, gameID uint, owner Participant) (int64, error)
	ClearSquares(ctx context.Context, gameID uint) error

	AxisNumbers(ctx context.Context, gameID uint) (AxisNumbers, error)
	LockWithAxis(ctx context.Context, gameID uint, axis AxisNumbers) error
	SetLocked(ctx context.Context, gameID uint, locked bool) error
	SetMaxSquares(ctx context.Context, gameID uint, max int) error

	QuarterScores(ctx context.Context) ([]QuarterScore, error)
	UpsertQuarterScore(ctx context.Context, score QuarterScore) error
	ClearQuarterScores(ctx context.Context) error

	ListPredictions(ctx context.Context, gameID uint) ([]Prediction, error)
	UpsertPrediction(ctx context.Context, prediction *Prediction) error
	DeletePrediction(ctx context.Context, gameID, id uint) (int64, error)
	ClearPredictions(ctx context.Context, gameID uint) error

	ResetGame(ctx context.Context, gameID uint) error
}

type Engine struct {
	store Store
	intn  func(n int) int
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		intn:  rand.IntN,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) Game(ctx context.Context, slug string) (Game, error) {
	return e.store.GameBySlug(ctx, slug)
}

// Board returns the grid together with the viewer's quota usage.
func (e *Engine) Board(ctx context.Context, game Game, viewer Participant) (Board, error) {
	all, err := e.store.ListSquares(ctx, game.ID)
	if err != nil {
		return Board{}, err
	}
	board := Board{
		Grid:              BuildGrid(all),
		MaxSquaresPerUser: game.MaxSquaresPerUser,
	}
	for _, square := range all {
		if square.OwnedBy(viewer) {
			board.UserSquareCount++
		}
	}
	return board, nil
}

func (e *Engine) Claim(ctx context.Context, game Game, row, col int, p Participant) (Square, error) {
	if !validCoordinates(row, col) {
		return Square{}, ErrInvalidCoordinates
	}
	if !p.Valid() {
		return Square{}, ErrInvalidParticipant
	}
	if game.IsLocked {
		return Square{}, ErrGameLocked
	}
	count, err := e.store.CountSquares(ctx, game.ID, p)
	if err != nil {
		return Square{}, err
	}
	if count >= game.MaxSquaresPerUser {
		return Square{}, ErrMaxSquares
	}

	square := Square{
		GameID:    game.ID,
		Row:       row,
		Col:       col,
		UserEmail: p.Email,
		UserName:  p.DisplayName(),
		UserImage: p.Image,
		ClaimedAt: e.now(),
	}
	if p.IsProxy() {
		id := p.ProxyID
		square.ProxyID = &id
		square.UserEmail = ""
	}
	if err := e.store.InsertSquare(ctx, &square); err != nil {
		return Square{}, err
	}
	return square, nil
}

// Release frees a square held by p. Ownership is part of the delete
// predicate, so a non-owner affects no rows.
func (e *Engine) Release(ctx context.Context, game Game, row, col int, p Participant) error {
	if !validCoordinates(row, col) {
		return ErrInvalidCoordinates
	}
	if !p.Valid() {
		return ErrInvalidParticipant
	}
	if game.IsLocked {
		return ErrGameLocked
	}
	affected, err := e.store.DeleteSquare(ctx, game.ID, row, col, &p)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotOwner
	}
	return nil
}

// AdminRelease frees a square regardless of owner or lock state.
func (e *Engine) AdminRelease(ctx context.Context, game Game, row, col int) error {
	if !validCoordinates(row, col) {
		return ErrInvalidCoordinates
	}
	affected, err := e.store.DeleteSquare(ctx, game.ID, row, col, nil)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSquareNotFound
	}
	return nil
}

func (e *Engine) ReleaseAll(ctx context.Context, game Game, p Participant) (int64, error) {
	if !p.Valid() {
		return 0, ErrInvalidParticipant
	}
	return e.store.DeleteSquaresByParticipant(ctx, game.ID, p)
}

func (e *Engine) ClearSquares(ctx context.Context, game Game) error {
	return e.store.ClearSquares(ctx, game.ID)
}

// ToggleLock flips the lock state. Locking always draws fresh axis numbers.
func (e *Engine) ToggleLock(ctx context.Context, game Game) (bool, AxisNumbers, error) {
	if game.IsLocked {
		if err := e.Unlock(ctx, game); err != nil {
			return true, AxisNumbers{}, err
		}
		return false, AxisNumbers{}, nil
	}
	axis, err := e.Lock(ctx, game)
	if err != nil {
		return false, AxisNumbers{}, err
	}
	return true, axis, nil
}

func (e *Engine) Lock(ctx context.Context, game Game) (AxisNumbers, error) {
	axis := GenerateAxis(e.intn)
	if err := e.store.LockWithAxis(ctx, game.ID, axis); err != nil {
		return AxisNumbers{}, fmt.Errorf("lock game %s: %w", game.Slug, err)
	}
	return axis, nil
}

// Unlock keeps the current axis numbers; the next lock replaces them.
func (e *Engine) Unlock(ctx context.Context, game Game) error {
	return e.store.SetLocked(ctx, game.ID, false)
}

func (e *Engine) AxisNumbers(ctx context.Context, game Game) (AxisNumbers, error) {
	return e.store.AxisNumbers(ctx, game.ID)
}

func (e *Engine) SetMaxSquares(ctx context.Context, game Game, max int) error {
	if max < MinSquaresPerUser || max > MaxSquaresPerUser {
		return ErrInvalidMaxSquares
	}
	return e.store.SetMaxSquares(ctx, game.ID, max)
}

// SetQuarterScore records a quarter's score. Quarter scores are shared
// by every game.
func (e *Engine) SetQuarterScore(ctx context.Context, quarter int, home, away *int) error {
	if quarter < 1 || quarter > Quarters {
		return ErrInvalidQuarter
	}
	if (home != nil && *home < 0) || (away != nil && *away < 0) {
		return ErrInvalidScore
	}
	return e.store.UpsertQuarterScore(ctx, QuarterScore{
		Quarter:   quarter,
		Home:      home,
		Away:      away,
		UpdatedAt: e.now(),
	})
}

func (e *Engine) QuarterScores(ctx context.Context) ([]QuarterScore, error) {
	return e.store.QuarterScores(ctx)
}

func (e *Engine) ClearScores(ctx context.Context) error {
	return e.store.ClearQuarterScores(ctx)
}

func (e *Engine) CalculateWinners(ctx context.Context, game Game) ([]QuarterResult, error) {
	scores, err := e.store.QuarterScores(ctx)
	if err != nil {
		return nil, err
	}
	axis, err := e.store.AxisNumbers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	all, err := e.store.ListSquares(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	results, err := ResolveWinners(scores, axis, all)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", game.Slug, err)
	}
	return results, nil
}

// SavePrediction creates or replaces the participant's prediction. Only
// proxy predictions entered by an admin are accepted after lock.
func (e *Engine) SavePrediction(ctx context.Context, game Game, p Participant, home, away int, createdBy string) (Prediction, error) {
	if !p.Valid() {
		return Prediction{}, ErrInvalidParticipant
	}
	if game.IsLocked && !p.IsProxy() {
		return Prediction{}, ErrGameLocked
	}
	if home < 0 || away < 0 {
		return Prediction{}, ErrInvalidScore
	}
	now := e.now()
	prediction := Prediction{
		GameID:    game.ID,
		UserEmail: p.Email,
		UserName:  p.DisplayName(),
		Home:      home,
		Away:      away,
		IsProxy:   p.IsProxy(),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.IsProxy() {
		id := p.ProxyID
		prediction.ProxyID = &id
		prediction.UserEmail = ""
	}
	if err := e.store.UpsertPrediction(ctx, &prediction); err != nil {
		return Prediction{}, err
	}
	return prediction, nil
}

func (e *Engine) DeletePrediction(ctx context.Context, game Game, id uint) error {
	affected, err := e.store.DeletePrediction(ctx, game.ID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPredictionNotFound
	}
	return nil
}

func (e *Engine) Predictions(ctx context.Context, game Game, actualHome, actualAway *int) ([]PredictionResult, error) {
	predictions, err := e.store.ListPredictions(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	return RankPredictions(predictions, actualHome, actualAway), nil
}

// Reset clears squares, the shared quarter scores and the game's
// predictions, and unlocks the game.
func (e *Engine) Reset(ctx context.Context, game Game) error {
	return e.store.ResetGame(ctx, game.ID)
}
