package squares

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameLocked         = errors.New("game locked")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrMaxSquares         = errors.New("maximum squares reached")
	ErrSquareTaken        = errors.New("square already taken")
	ErrNotOwner           = errors.New("cannot release this square")
	ErrSquareNotFound     = errors.New("square not found")
	ErrInvalidMaxSquares  = errors.New("max squares must be between 1 and 100")
	ErrInvalidQuarter     = errors.New("quarter must be between 1 and 4")
	ErrInvalidScore       = errors.New("scores must be zero or greater")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrAxisIntegrity      = errors.New("axis numbers are not a permutation of 0-9")
)
