package server

import (
	"errors"
	"log"
	"net/http"

	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
)

type squareActionRequest struct {
	Action string `json:"action" binding:"required,oneof=claim release"`
	Row    *int   `json:"row" binding:"required"`
	Col    *int   `json:"col" binding:"required"`
}

var squareActionMessages = bindMessages{
	"Action": {"required": "invalid action", "oneof": "invalid action"},
	"Row":    {"required": "invalid coordinates"},
	"Col":    {"required": "invalid coordinates"},
}

func (s *Server) handleBoard(c *gin.Context) {
	game := currentGame(c)
	if game.IsLocked {
		abortWithError(c, squares.ErrGameLocked)
		return
	}
	v := currentViewer(c)
	board, err := s.engine.Board(c.Request.Context(), game, v.participant())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game":                 game,
		"grid":                 board.Grid,
		"user_square_count":    board.UserSquareCount,
		"max_squares_per_user": board.MaxSquaresPerUser,
		"user_email":           v.User.Email,
	})
}

func (s *Server) handleBoardAction(c *gin.Context) {
	game := currentGame(c)
	if game.IsLocked {
		abortWithError(c, squares.ErrGameLocked)
		return
	}
	var req squareActionRequest
	if !bindJSON(c, &req, squareActionMessages, "invalid data") {
		return
	}
	v := currentViewer(c)
	row, col := *req.Row, *req.Col

	if req.Action == "release" {
		if err := s.engine.Release(c.Request.Context(), game, row, col, v.participant()); err != nil {
			abortWithError(c, err)
			return
		}
		log.Printf("square released game=%s row=%d col=%d by=%s", game.Slug, row, col, v.User.Email)
		r, cl := cell(row, col)
		s.recordEvent(c, &game, eventSquareReleased, EventPayload{Participant: v.User.Email, Row: r, Col: cl})
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	square, err := s.engine.Claim(c.Request.Context(), game, row, col, v.participant())
	if err != nil {
		if errors.Is(err, squares.ErrSquareTaken) {
			log.Printf("square claim conflict game=%s row=%d col=%d by=%s", game.Slug, row, col, v.User.Email)
		}
		abortWithError(c, err)
		return
	}
	log.Printf("square claimed game=%s row=%d col=%d by=%s", game.Slug, row, col, v.User.Email)
	r, cl := cell(row, col)
	s.recordEvent(c, &game, eventSquareClaimed, EventPayload{Participant: v.User.Email, Row: r, Col: cl})
	c.JSON(http.StatusOK, gin.H{"success": true, "square": square})
}

type finalScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// handleResults works in any lock state. Predictions are only ranked
// once the game is locked.
func (s *Server) handleResults(c *gin.Context) {
	ctx := c.Request.Context()
	game := currentGame(c)
	axis, err := s.engine.AxisNumbers(ctx, game)
	if err != nil {
		abortWithError(c, err)
		return
	}
	quarters, err := s.engine.CalculateWinners(ctx, game)
	if err != nil {
		abortWithError(c, err)
		return
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	predictions := []squares.PredictionResult{}
	if game.IsLocked {
		predictions, err = s.engine.Predictions(ctx, game, settings.FinalHomeScore, settings.FinalAwayScore)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	var axisBody *squares.AxisNumbers
	if axis.Assigned() {
		axisBody = &axis
	}
	c.JSON(http.StatusOK, gin.H{
		"game":        game,
		"home_team":   s.cfg.HomeTeam,
		"away_team":   s.cfg.AwayTeam,
		"axis":        axisBody,
		"quarters":    quarters,
		"final_score": finalScore{Home: settings.FinalHomeScore, Away: settings.FinalAwayScore},
		"predictions": predictions,
	})
}

func (s *Server) handlePredictionForm(c *gin.Context) {
	game := currentGame(c)
	v := currentViewer(c)
	target := gamePath(c, game)
	if game.IsLocked {
		log.Printf("prediction rejected game=%s reason=locked by=%s", game.Slug, v.User.Email)
		redirectWithMessage(c, target, "game_locked")
		return
	}

	home, okHome := formInt(c, "prediction_home")
	away, okAway := formInt(c, "prediction_away")
	if !okHome || !okAway {
		redirectWithMessage(c, target, "invalid_prediction")
		return
	}
	if home == nil || away == nil {
		redirectWithMessage(c, target, "incomplete_prediction")
		return
	}

	_, err := s.engine.SavePrediction(c.Request.Context(), game, v.participant(), *home, *away, v.User.Email)
	if err != nil {
		if errors.Is(err, squares.ErrInvalidScore) {
			redirectWithMessage(c, target, "invalid_prediction")
			return
		}
		redirectWithMessage(c, target, formMessage(err, "prediction_error"))
		return
	}
	log.Printf("prediction saved game=%s home=%d away=%d by=%s", game.Slug, *home, *away, v.User.Email)
	s.recordEvent(c, &game, eventPredictionSaved, EventPayload{Participant: v.User.Email, HomeScore: home, AwayScore: away})
	redirectWithMessage(c, target, "prediction_saved")
}
