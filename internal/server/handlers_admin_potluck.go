package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"party-squares/internal/db"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

var settingsToggles = map[string]struct {
	name  string
	field func(*db.Settings) *bool
}{
	"toggle_reveal_entries": {"reveal_entries", func(s *db.Settings) *bool { return &s.RevealEntries }},
	"toggle_voting_active":  {"voting_active", func(s *db.Settings) *bool { return &s.VotingActive }},
	"toggle_voting_locked":  {"voting_locked", func(s *db.Settings) *bool { return &s.VotingLocked }},
	"toggle_reveal_results": {"reveal_results", func(s *db.Settings) *bool { return &s.RevealResults }},
}

func (s *Server) handleGetSettings(c *gin.Context) {
	settings, err := s.store.Settings(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleAdminSettings(c *gin.Context) {
	returnTo := safeReturnTo(c.PostForm("return_to"), "/entries/admin")
	action := c.PostForm("action")
	toggle, ok := settingsToggles[action]
	if !ok {
		log.Printf("unknown settings action=%q", action)
		redirectWithMessage(c, returnTo, "unknown_action")
		return
	}
	var enabled bool
	_, err := s.store.UpdateSettings(c.Request.Context(), func(settings *db.Settings) {
		field := toggle.field(settings)
		*field = !*field
		enabled = *field
	})
	if err != nil {
		redirectWithMessage(c, returnTo, formMessage(err, "settings_error"))
		return
	}
	log.Printf("setting toggled setting=%s enabled=%t by=%s", toggle.name, enabled, currentViewer(c).User.Email)
	s.recordEvent(c, nil, eventSettingsChanged, EventPayload{Setting: toggle.name, Enabled: &enabled})
	redirectWithMessage(c, returnTo, "settings_saved")
}

type adminEntryRequest struct {
	entryRequest
	ProxyID     string `json:"proxy_id"`
	EntrantName string `json:"entrant_name" binding:"proxyname"`
}

var adminEntryMessages = bindMessages{
	"EntrantName": {"proxyname": "invalid entrant name"},
}

func (s *Server) handleAdminCreateEntry(c *gin.Context) {
	var req adminEntryRequest
	if !bindJSON(c, &req, adminEntryMessages, "invalid data") {
		return
	}
	proxy, err := s.resolveProxy(c, nil, req.ProxyID, req.EntrantName, true)
	if err != nil {
		s.proxyError(c, err)
		return
	}
	entry, err := s.potluck.CreateEntry(c.Request.Context(), proxyParticipant(proxy), req.input())
	if err != nil {
		abortWithError(c, err)
		return
	}
	id := proxy.PublicID
	log.Printf("proxy entry created id=%d proxy=%s by=%s", entry.ID, id, currentViewer(c).User.Email)
	s.recordEvent(c, nil, eventEntryCreated, EventPayload{Participant: proxy.Name, ProxyID: &id, EntryID: entry.ID})
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "proxy": toProxyView(proxy)})
}

func (s *Server) handleAdminDeleteEntry(c *gin.Context) {
	var uri idURI
	if !bindURI(c, &uri) {
		return
	}
	if err := s.potluck.DeleteProxyEntry(c.Request.Context(), uri.ID); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("proxy entry deleted id=%d by=%s", uri.ID, currentViewer(c).User.Email)
	s.recordEvent(c, nil, eventEntryDeleted, EventPayload{EntryID: uri.ID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type adminVoteRequest struct {
	ballotRequest
	ProxyID string `json:"proxy_id"`
}

func (s *Server) handleAdminCastVote(c *gin.Context) {
	var req adminVoteRequest
	if !bindJSON(c, &req, nil, "invalid data") {
		return
	}
	proxy, err := s.resolveProxy(c, nil, req.ProxyID, "", false)
	if err != nil {
		s.proxyError(c, err)
		return
	}
	vote, err := s.potluck.CastProxyVote(c.Request.Context(), proxyParticipant(proxy), req.ballot())
	if err != nil {
		abortWithError(c, err)
		return
	}
	id := proxy.PublicID
	log.Printf("proxy vote recorded proxy=%s by=%s", id, currentViewer(c).User.Email)
	s.recordEvent(c, nil, eventVoteCast, EventPayload{Participant: proxy.Name, ProxyID: &id})
	c.JSON(http.StatusOK, gin.H{"vote": vote, "proxy": toProxyView(proxy)})
}

func (s *Server) handleAdminProxies(c *gin.Context) {
	proxies, err := s.store.ListProxies(c.Request.Context(), nil)
	if err != nil {
		abortWithError(c, err)
		return
	}
	views := make([]proxyView, 0, len(proxies))
	for _, proxy := range proxies {
		views = append(views, toProxyView(proxy))
	}
	c.JSON(http.StatusOK, gin.H{"proxies": views})
}

type eventView struct {
	ID        uint           `json:"id"`
	GameID    *uint          `json:"game_id"`
	Actor     string         `json:"actor"`
	Type      string         `json:"type"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s *Server) handleAdminEvents(c *gin.Context) {
	limit := defaultRecentEventLimit
	if raw := c.Query("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value <= 500 {
			limit = value
		}
	}
	events, err := s.store.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, eventView{
			ID:        event.ID,
			GameID:    event.GameID,
			Actor:     event.Actor,
			Type:      event.Type,
			Payload:   event.Payload,
			CreatedAt: event.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}
