package server

import (
	"net/http"
	"strings"

	"party-squares/internal/db"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
)

const (
	gameKey = "game"
	roleKey = "game_role"
)

// loadGame resolves :slug, or the default game when the route has none.
// Named games need a game_access row; the default game is open to every
// approved guest.
func (s *Server) loadGame(c *gin.Context) {
	ctx := c.Request.Context()
	slug := strings.TrimSpace(c.Param("slug"))
	explicit := slug != ""
	if !explicit {
		slug = s.cfg.DefaultGameSlug
	}
	game, err := s.engine.Game(ctx, slug)
	if err != nil {
		abortWithError(c, err)
		return
	}

	v := currentViewer(c)
	role := db.RoleAdmin
	if !v.User.IsAdmin {
		role, err = s.store.GameRole(ctx, game.ID, v.User.Email)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}
	if explicit && role == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no access to this game"})
		return
	}
	c.Set(gameKey, game)
	c.Set(roleKey, role)
	c.Next()
}

func (s *Server) requireGameAdmin(c *gin.Context) {
	if role, _ := c.Get(roleKey); role != db.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Next()
}

func currentGame(c *gin.Context) squares.Game {
	value, ok := c.Get(gameKey)
	if !ok {
		return squares.Game{}
	}
	return value.(squares.Game)
}

// gamePath is the page a game's forms return to.
func gamePath(c *gin.Context, game squares.Game) string {
	if c.Param("slug") == "" {
		return "/squares"
	}
	return "/squares/" + game.Slug
}
