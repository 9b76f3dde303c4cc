package server

import (
	"errors"
	"log"
	"net/http"

	"party-squares/internal/potluck"

	"github.com/gin-gonic/gin"
)

type entryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	NeedsPower  bool   `json:"needs_power"`
	Notes       string `json:"notes"`
}

func (r entryRequest) input() potluck.EntryInput {
	return potluck.EntryInput{
		Title:       r.Title,
		Description: r.Description,
		NeedsPower:  r.NeedsPower,
		Notes:       r.Notes,
	}
}

type ballotRequest struct {
	FirstPlace  uint `json:"first_place"`
	SecondPlace uint `json:"second_place"`
	ThirdPlace  uint `json:"third_place"`
}

func (r ballotRequest) ballot() potluck.Ballot {
	return potluck.Ballot{First: r.FirstPlace, Second: r.SecondPlace, Third: r.ThirdPlace}
}

func (s *Server) handleListEntries(c *gin.Context) {
	ctx := c.Request.Context()
	v := currentViewer(c)
	settings, err := s.store.Settings(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	reveal := settings.RevealEntries || v.User.IsAdmin
	entries, err := s.potluck.VisibleEntries(ctx, reveal)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var mine *potluck.Entry
	entry, err := s.potluck.EntryFor(ctx, v.participant())
	switch {
	case err == nil:
		mine = &entry
	case !errors.Is(err, potluck.ErrEntryNotFound):
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":        entries,
		"my_entry":       mine,
		"reveal_entries": settings.RevealEntries,
	})
}

func (s *Server) handleCreateEntry(c *gin.Context) {
	var req entryRequest
	if !bindJSON(c, &req, nil, "invalid data") {
		return
	}
	v := currentViewer(c)
	entry, err := s.potluck.CreateEntry(c.Request.Context(), v.participant(), req.input())
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("entry created id=%d by=%s", entry.ID, v.User.Email)
	s.recordEvent(c, nil, eventEntryCreated, EventPayload{Participant: v.User.Email, EntryID: entry.ID})
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (s *Server) handleUpdateEntry(c *gin.Context) {
	var uri idURI
	if !bindURI(c, &uri) {
		return
	}
	var req entryRequest
	if !bindJSON(c, &req, nil, "invalid data") {
		return
	}
	v := currentViewer(c)
	entry, err := s.potluck.UpdateEntry(c.Request.Context(), uri.ID, v.participant(), req.input())
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("entry updated id=%d by=%s", entry.ID, v.User.Email)
	s.recordEvent(c, nil, eventEntryUpdated, EventPayload{Participant: v.User.Email, EntryID: entry.ID})
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	var uri idURI
	if !bindURI(c, &uri) {
		return
	}
	v := currentViewer(c)
	if err := s.potluck.DeleteEntry(c.Request.Context(), uri.ID, v.participant()); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("entry deleted id=%d by=%s", uri.ID, v.User.Email)
	s.recordEvent(c, nil, eventEntryDeleted, EventPayload{Participant: v.User.Email, EntryID: uri.ID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleMyVote(c *gin.Context) {
	ctx := c.Request.Context()
	settings, err := s.store.Settings(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var mine *potluck.Vote
	vote, err := s.potluck.VoteFor(ctx, currentViewer(c).participant())
	switch {
	case err == nil:
		mine = &vote
	case !errors.Is(err, potluck.ErrVoteNotFound):
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vote":          mine,
		"voting_active": settings.VotingActive,
		"voting_locked": settings.VotingLocked,
	})
}

func (s *Server) handleCastVote(c *gin.Context) {
	var req ballotRequest
	if !bindJSON(c, &req, nil, "invalid data") {
		return
	}
	v := currentViewer(c)
	vote, err := s.potluck.CastVote(c.Request.Context(), v.participant(), req.ballot())
	if err != nil {
		if errors.Is(err, potluck.ErrVotingInactive) || errors.Is(err, potluck.ErrVotingLocked) {
			log.Printf("vote rejected reason=%v by=%s", err, v.User.Email)
		}
		abortWithError(c, err)
		return
	}
	log.Printf("vote recorded by=%s", v.User.Email)
	s.recordEvent(c, nil, eventVoteCast, EventPayload{Participant: v.User.Email})
	c.JSON(http.StatusOK, gin.H{"vote": vote})
}

func (s *Server) handleVoteResults(c *gin.Context) {
	ctx := c.Request.Context()
	settings, err := s.store.Settings(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !settings.RevealResults && !currentViewer(c).User.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "results not revealed"})
		return
	}
	standings, err := s.potluck.Results(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}
