package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"party-squares/internal/db"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type proxyView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toProxyView(p db.Proxy) proxyView {
	return proxyView{ID: p.PublicID, Name: p.Name, CreatedBy: p.CreatedBy, CreatedAt: p.CreatedAt}
}

func proxyParticipant(p db.Proxy) squares.Participant {
	return squares.Participant{ProxyID: p.PublicID, Name: p.Name}
}

type adminSquaresRequest struct {
	Action    string `json:"action" binding:"required,oneof=create_proxy proxy_claim proxy_release release_all_by_proxy"`
	Row       *int   `json:"row"`
	Col       *int   `json:"col"`
	ProxyID   string `json:"proxy_id"`
	ProxyName string `json:"proxy_name" binding:"proxyname"`
}

var adminSquaresMessages = bindMessages{
	"Action":    {"required": "invalid action", "oneof": "invalid action"},
	"ProxyName": {"proxyname": "invalid proxy name"},
}

var errProxyRequired = errors.New("proxy is required")

// resolveProxy finds the proxy named by id within scope, or creates
// one called name when create is set and no id is given. A nil scope
// means party-wide potluck proxies. Claims, predictions and votes pass
// create=false so repeats land on the same proxy and its limits.
func (s *Server) resolveProxy(c *gin.Context, scope *squares.Game, rawID, name string, create bool) (db.Proxy, error) {
	ctx := c.Request.Context()
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return db.Proxy{}, db.ErrProxyNotFound
		}
		proxy, err := s.store.ProxyByPublicID(ctx, id)
		if err != nil {
			return db.Proxy{}, err
		}
		if !proxyInScope(proxy, scope) {
			return db.Proxy{}, db.ErrProxyNotFound
		}
		return proxy, nil
	}
	name = normalizeText(name)
	if !create || name == "" {
		return db.Proxy{}, errProxyRequired
	}
	var gameID *uint
	if scope != nil {
		id := scope.ID
		gameID = &id
	}
	admin := currentViewer(c).User.Email
	proxy, err := s.store.CreateProxy(ctx, gameID, name, admin)
	if err != nil {
		return db.Proxy{}, err
	}
	log.Printf("proxy created id=%s name=%q by=%s", proxy.PublicID, proxy.Name, admin)
	id := proxy.PublicID
	s.recordEvent(c, scope, eventProxyCreated, EventPayload{Participant: proxy.Name, ProxyID: &id})
	return proxy, nil
}

func proxyInScope(proxy db.Proxy, scope *squares.Game) bool {
	if scope == nil {
		return proxy.GameID == nil
	}
	return proxy.GameID != nil && *proxy.GameID == scope.ID
}

func (s *Server) handleAdminBoard(c *gin.Context) {
	ctx := c.Request.Context()
	game := currentGame(c)
	board, err := s.engine.Board(ctx, game, squares.Participant{})
	if err != nil {
		abortWithError(c, err)
		return
	}
	proxies, err := s.store.ListProxies(ctx, &game.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	views := make([]proxyView, 0, len(proxies))
	for _, proxy := range proxies {
		views = append(views, toProxyView(proxy))
	}
	c.JSON(http.StatusOK, gin.H{
		"game":                 game,
		"grid":                 board.Grid,
		"max_squares_per_user": game.MaxSquaresPerUser,
		"proxies":              views,
	})
}

func (s *Server) handleAdminSquaresAction(c *gin.Context) {
	var req adminSquaresRequest
	if !bindJSON(c, &req, adminSquaresMessages, "invalid data") {
		return
	}
	ctx := c.Request.Context()
	game := currentGame(c)
	admin := currentViewer(c).User.Email

	switch req.Action {
	case "create_proxy":
		if req.ProxyID != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "proxy_id must be empty"})
			return
		}
		proxy, err := s.resolveProxy(c, &game, "", req.ProxyName, true)
		if err != nil {
			s.proxyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "proxy": toProxyView(proxy)})

	case "proxy_claim":
		if req.Row == nil || req.Col == nil {
			abortWithError(c, squares.ErrInvalidCoordinates)
			return
		}
		proxy, err := s.resolveProxy(c, &game, req.ProxyID, "", false)
		if err != nil {
			s.proxyError(c, err)
			return
		}
		square, err := s.engine.Claim(ctx, game, *req.Row, *req.Col, proxyParticipant(proxy))
		if err != nil {
			abortWithError(c, err)
			return
		}
		log.Printf("proxy square claimed game=%s row=%d col=%d proxy=%s by=%s", game.Slug, *req.Row, *req.Col, proxy.PublicID, admin)
		id := proxy.PublicID
		r, cl := cell(*req.Row, *req.Col)
		s.recordEvent(c, &game, eventSquareClaimed, EventPayload{Participant: proxy.Name, ProxyID: &id, Row: r, Col: cl})
		c.JSON(http.StatusOK, gin.H{"success": true, "square": square, "proxy": toProxyView(proxy)})

	case "proxy_release":
		if req.Row == nil || req.Col == nil {
			abortWithError(c, squares.ErrInvalidCoordinates)
			return
		}
		if err := s.engine.AdminRelease(ctx, game, *req.Row, *req.Col); err != nil {
			abortWithError(c, err)
			return
		}
		log.Printf("admin released square game=%s row=%d col=%d by=%s", game.Slug, *req.Row, *req.Col, admin)
		r, cl := cell(*req.Row, *req.Col)
		s.recordEvent(c, &game, eventSquareReleased, EventPayload{Row: r, Col: cl})
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "release_all_by_proxy":
		proxy, err := s.resolveProxy(c, &game, req.ProxyID, "", false)
		if err != nil {
			s.proxyError(c, err)
			return
		}
		count, err := s.engine.ReleaseAll(ctx, game, proxyParticipant(proxy))
		if err != nil {
			abortWithError(c, err)
			return
		}
		log.Printf("admin released squares game=%s count=%d proxy=%s by=%s", game.Slug, count, proxy.PublicID, admin)
		id := proxy.PublicID
		s.recordEvent(c, &game, eventSquaresReleased, EventPayload{Participant: proxy.Name, ProxyID: &id, Count: count})
		c.JSON(http.StatusOK, gin.H{"success": true, "released_count": count})
	}
}

func (s *Server) proxyError(c *gin.Context, err error) {
	if errors.Is(err, errProxyRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errProxyRequired.Error()})
		return
	}
	abortWithError(c, err)
}

type adminFormAction func(s *Server, c *gin.Context, game squares.Game) string

var adminSquaresFormActions = map[string]adminFormAction{
	"toggle_squares_locked": (*Server).formToggleLock,
	"set_max_squares":       (*Server).formSetMaxSquares,
	"set_score":             (*Server).formSetScore,
	"set_final_score":       (*Server).formSetFinalScore,
	"proxy_prediction":      (*Server).formProxyPrediction,
	"delete_prediction":     (*Server).formDeletePrediction,
	"clear_all_squares":     (*Server).formClearSquares,
	"clear_all_scores":      (*Server).formClearScores,
	"reset_game":            (*Server).formResetGame,
}

func (s *Server) handleAdminSquaresForm(c *gin.Context) {
	game := currentGame(c)
	returnTo := safeReturnTo(c.PostForm("return_to"), gamePath(c, game)+"/admin")
	action := c.PostForm("action")
	handler, ok := adminSquaresFormActions[action]
	if !ok {
		log.Printf("unknown squares admin action=%q game=%s", action, game.Slug)
		redirectWithMessage(c, returnTo, "unknown_action")
		return
	}
	redirectWithMessage(c, returnTo, handler(s, c, game))
}

func (s *Server) formToggleLock(c *gin.Context, game squares.Game) string {
	admin := currentViewer(c).User.Email
	locked, axis, err := s.engine.ToggleLock(c.Request.Context(), game)
	if err != nil {
		return formMessage(err, "lock_error")
	}
	if !locked {
		log.Printf("game unlocked game=%s by=%s", game.Slug, admin)
		s.recordEvent(c, &game, eventGameUnlocked, EventPayload{})
		return "squares_unlocked"
	}
	log.Printf("game locked game=%s rows=%v cols=%v by=%s", game.Slug, axis.Rows, axis.Cols, admin)
	s.recordEvent(c, &game, eventGameLocked, EventPayload{Axis: &axis})
	return "squares_locked"
}

func (s *Server) formSetMaxSquares(c *gin.Context, game squares.Game) string {
	value, ok := formInt(c, "max_squares")
	if !ok || value == nil {
		return "invalid_max_squares"
	}
	if err := s.engine.SetMaxSquares(c.Request.Context(), game, *value); err != nil {
		return formMessage(err, "max_squares_error")
	}
	log.Printf("max squares set game=%s max=%d by=%s", game.Slug, *value, currentViewer(c).User.Email)
	s.recordEvent(c, &game, eventMaxSquaresSet, EventPayload{Count: int64(*value)})
	return "max_squares_saved"
}

func (s *Server) formSetScore(c *gin.Context, game squares.Game) string {
	quarter, ok := formInt(c, "quarter")
	if !ok || quarter == nil {
		return "invalid_quarter"
	}
	home, okHome := formInt(c, "home_score")
	away, okAway := formInt(c, "away_score")
	if !okHome || !okAway {
		return "invalid_score"
	}
	if err := s.engine.SetQuarterScore(c.Request.Context(), *quarter, home, away); err != nil {
		if errors.Is(err, squares.ErrInvalidScore) {
			return "invalid_score"
		}
		return formMessage(err, "score_error")
	}
	log.Printf("quarter score set quarter=%d home=%s away=%s by=%s", *quarter, formatScore(home), formatScore(away), currentViewer(c).User.Email)
	s.recordEvent(c, &game, eventScoreSet, EventPayload{Quarter: *quarter, HomeScore: home, AwayScore: away})
	return "score_saved"
}

func (s *Server) formSetFinalScore(c *gin.Context, game squares.Game) string {
	home, okHome := formInt(c, "final_home_score")
	away, okAway := formInt(c, "final_away_score")
	if !okHome || !okAway || (home != nil && *home < 0) || (away != nil && *away < 0) {
		return "invalid_score"
	}
	_, err := s.store.UpdateSettings(c.Request.Context(), func(settings *db.Settings) {
		settings.FinalHomeScore = home
		settings.FinalAwayScore = away
	})
	if err != nil {
		return formMessage(err, "score_error")
	}
	log.Printf("final score set home=%s away=%s by=%s", formatScore(home), formatScore(away), currentViewer(c).User.Email)
	s.recordEvent(c, &game, eventFinalScoreSet, EventPayload{HomeScore: home, AwayScore: away})
	return "final_score_saved"
}

func (s *Server) formProxyPrediction(c *gin.Context, game squares.Game) string {
	home, okHome := formInt(c, "prediction_home")
	away, okAway := formInt(c, "prediction_away")
	if !okHome || !okAway {
		return "invalid_prediction"
	}
	if home == nil || away == nil {
		return "incomplete_prediction"
	}
	proxy, err := s.resolveProxy(c, &game, c.PostForm("proxy_id"), "", false)
	if err != nil {
		if errors.Is(err, errProxyRequired) {
			return "proxy_required"
		}
		return formMessage(err, "prediction_error")
	}
	admin := currentViewer(c).User.Email
	if _, err := s.engine.SavePrediction(c.Request.Context(), game, proxyParticipant(proxy), *home, *away, admin); err != nil {
		if errors.Is(err, squares.ErrInvalidScore) {
			return "invalid_prediction"
		}
		return formMessage(err, "prediction_error")
	}
	log.Printf("proxy prediction saved game=%s proxy=%s home=%d away=%d by=%s", game.Slug, proxy.PublicID, *home, *away, admin)
	id := proxy.PublicID
	s.recordEvent(c, &game, eventPredictionSaved, EventPayload{Participant: proxy.Name, ProxyID: &id, HomeScore: home, AwayScore: away})
	return "prediction_saved"
}

func (s *Server) formDeletePrediction(c *gin.Context, game squares.Game) string {
	id, ok := formInt(c, "prediction_id")
	if !ok || id == nil || *id <= 0 {
		return "prediction_not_found"
	}
	if err := s.engine.DeletePrediction(c.Request.Context(), game, uint(*id)); err != nil {
		return formMessage(err, "prediction_error")
	}
	log.Printf("prediction deleted game=%s id=%d by=%s", game.Slug, *id, currentViewer(c).User.Email)
	s.recordEvent(c, &game, eventPredictionDeleted, EventPayload{PredictionID: uint(*id)})
	return "prediction_deleted"
}

func (s *Server) formClearSquares(c *gin.Context, game squares.Game) string {
	return s.runGameReset(c, game, s.engine.ClearSquares, eventSquaresCleared, "squares_cleared")
}

func (s *Server) formClearScores(c *gin.Context, game squares.Game) string {
	clearScores := func(ctx context.Context, _ squares.Game) error {
		return s.engine.ClearScores(ctx)
	}
	return s.runGameReset(c, game, clearScores, eventScoresCleared, "scores_cleared")
}

func (s *Server) formResetGame(c *gin.Context, game squares.Game) string {
	return s.runGameReset(c, game, s.engine.Reset, eventGameReset, "game_reset")
}

func (s *Server) runGameReset(c *gin.Context, game squares.Game, run func(context.Context, squares.Game) error, eventType, message string) string {
	if err := run(c.Request.Context(), game); err != nil {
		return formMessage(err, "reset_error")
	}
	log.Printf("%s game=%s by=%s", eventType, game.Slug, currentViewer(c).User.Email)
	s.recordEvent(c, &game, eventType, EventPayload{})
	return message
}

func formatScore(score *int) string {
	if score == nil {
		return "none"
	}
	return strconv.Itoa(*score)
}
