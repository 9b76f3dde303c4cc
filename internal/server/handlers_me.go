package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	DisplayName string `json:"display_name" binding:"required,displayname"`
}

var profileMessages = bindMessages{
	"DisplayName": {
		"required":    "name is required",
		"displayname": "name must be 50 printable characters or fewer",
	},
}

func (s *Server) handleMe(c *gin.Context) {
	v := currentViewer(c)
	memberships, err := s.store.Memberships(c.Request.Context(), v.User.Email, v.User.IsAdmin)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email":     v.User.Email,
		"name":      v.displayName(),
		"picture":   v.Identity.Picture,
		"approved":  true,
		"is_admin":  v.User.IsAdmin,
		"games":     memberships,
		"home_team": s.cfg.HomeTeam,
		"away_team": s.cfg.AwayTeam,
	})
}

func (s *Server) handleProfileUpdate(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req, profileMessages, "invalid profile") {
		return
	}
	name, _ := validateDisplayName(req.DisplayName)
	v := currentViewer(c)
	if err := s.store.UpdateUserName(c.Request.Context(), v.User.Email, name); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("profile updated email=%s name=%q", v.User.Email, name)
	c.JSON(http.StatusOK, gin.H{"success": true, "name": name})
}
