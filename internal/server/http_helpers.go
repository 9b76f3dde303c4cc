package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"party-squares/internal/db"
	"party-squares/internal/potluck"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
)

type errorRule struct {
	target error
	status int
}

var errorRules = []errorRule{
	{squares.ErrInvalidCoordinates, http.StatusBadRequest},
	{squares.ErrInvalidParticipant, http.StatusBadRequest},
	{squares.ErrMaxSquares, http.StatusBadRequest},
	{squares.ErrNotOwner, http.StatusBadRequest},
	{squares.ErrSquareNotFound, http.StatusBadRequest},
	{squares.ErrInvalidMaxSquares, http.StatusBadRequest},
	{squares.ErrInvalidQuarter, http.StatusBadRequest},
	{squares.ErrInvalidScore, http.StatusBadRequest},
	{potluck.ErrMissingFields, http.StatusBadRequest},
	{potluck.ErrFieldTooLong, http.StatusBadRequest},
	{potluck.ErrIncompleteVote, http.StatusBadRequest},
	{potluck.ErrDuplicateSelection, http.StatusBadRequest},
	{potluck.ErrInvalidEntry, http.StatusBadRequest},
	{potluck.ErrSelfVote, http.StatusBadRequest},
	{potluck.ErrNotProxyEntry, http.StatusBadRequest},
	{db.ErrNotApproved, http.StatusForbidden},
	{squares.ErrGameNotFound, http.StatusNotFound},
	{squares.ErrPredictionNotFound, http.StatusNotFound},
	{potluck.ErrEntryNotFound, http.StatusNotFound},
	{potluck.ErrVoteNotFound, http.StatusNotFound},
	{db.ErrProxyNotFound, http.StatusNotFound},
	{squares.ErrSquareTaken, http.StatusConflict},
	{potluck.ErrEntryExists, http.StatusConflict},
	{squares.ErrGameLocked, http.StatusLocked},
	{potluck.ErrVotingInactive, http.StatusLocked},
	{potluck.ErrVotingLocked, http.StatusLocked},
}

// errorStatus maps a domain error to its status and client message.
// Unknown errors become a generic 500.
func errorStatus(err error) (int, string) {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.status, rule.target.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}

func abortWithError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s error=%v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"error": message}
	if errors.Is(err, squares.ErrGameLocked) {
		body["locked"] = true
	}
	c.AbortWithStatusJSON(status, body)
}

var messageKeys = []struct {
	target error
	key    string
}{
	{squares.ErrGameLocked, "game_locked"},
	{squares.ErrInvalidQuarter, "invalid_quarter"},
	{squares.ErrInvalidMaxSquares, "invalid_max_squares"},
	{squares.ErrPredictionNotFound, "prediction_not_found"},
	{squares.ErrInvalidParticipant, "invalid_participant"},
	{db.ErrProxyNotFound, "proxy_not_found"},
}

// formMessage picks the redirect message key for err, or fallback when
// the error has no dedicated key.
func formMessage(err error, fallback string) string {
	for _, entry := range messageKeys {
		if errors.Is(err, entry.target) {
			return entry.key
		}
	}
	status, _ := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("form action failed error=%v", err)
	}
	return fallback
}

func redirectWithMessage(c *gin.Context, target, message string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	if message != "" {
		query := u.Query()
		query.Set("message", message)
		u.RawQuery = query.Encode()
	}
	c.Redirect(http.StatusFound, u.String())
}

// safeReturnTo only accepts same-site paths.
func safeReturnTo(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}

// formInt reads an optional integer form field. An empty field is nil;
// ok is false when the value is not a number.
func formInt(c *gin.Context, name string) (value *int, ok bool) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
