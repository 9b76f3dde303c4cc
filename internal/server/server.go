package server

import (
	"net/http"

	"party-squares/internal/config"
	"party-squares/internal/db"
	"party-squares/internal/potluck"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	store   *db.Store
	engine  *squares.Engine
	potluck *potluck.Service
	cfg     config.Config
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	store := db.NewStore(conn)
	return &Server{
		store:   store,
		engine:  squares.NewEngine(store),
		potluck: potluck.NewService(store),
		cfg:     cfg,
	}
}

func (s *Server) Handler() http.Handler {
	registerValidators()
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	api.Use(s.identify)

	forms := api.Group("/")
	forms.Use(s.requireApproved(true))
	{
		forms.POST("/predictions", s.loadGame, s.handlePredictionForm)
		forms.POST("/predictions/:slug", s.loadGame, s.handlePredictionForm)
	}

	protected := api.Group("/")
	protected.Use(s.requireApproved(false))
	{
		protected.GET("/me", s.handleMe)
		protected.PUT("/profile", s.handleProfileUpdate)

		board := protected.Group("/squares")
		{
			board.GET("", s.loadGame, s.handleBoard)
			board.POST("", s.loadGame, s.handleBoardAction)
			board.GET("/results", s.loadGame, s.handleResults)
			board.GET("/:slug", s.loadGame, s.handleBoard)
			board.POST("/:slug", s.loadGame, s.handleBoardAction)
			board.GET("/:slug/results", s.loadGame, s.handleResults)
		}

		protected.GET("/entries", s.handleListEntries)
		protected.POST("/entries", s.handleCreateEntry)
		protected.PUT("/entries/:id", s.handleUpdateEntry)
		protected.DELETE("/entries/:id", s.handleDeleteEntry)

		protected.GET("/votes", s.handleMyVote)
		protected.POST("/votes", s.handleCastVote)
		protected.GET("/votes/results", s.handleVoteResults)
	}

	admin := api.Group("/admin")
	{
		squaresForms := admin.Group("/squares")
		squaresForms.Use(s.requireApproved(true))
		squaresForms.POST("", s.loadGame, s.requireGameAdmin, s.handleAdminSquaresForm)
		squaresForms.POST("/:slug", s.loadGame, s.requireGameAdmin, s.handleAdminSquaresForm)

		squaresAPI := admin.Group("/squares")
		squaresAPI.Use(s.requireApproved(false))
		squaresAPI.GET("", s.loadGame, s.requireGameAdmin, s.handleAdminBoard)
		squaresAPI.PUT("", s.loadGame, s.requireGameAdmin, s.handleAdminSquaresAction)
		squaresAPI.GET("/:slug", s.loadGame, s.requireGameAdmin, s.handleAdminBoard)
		squaresAPI.PUT("/:slug", s.loadGame, s.requireGameAdmin, s.handleAdminSquaresAction)

		party := admin.Group("/")
		party.Use(s.requireApproved(true), s.requireAdmin)
		party.POST("/settings", s.handleAdminSettings)

		potluckAPI := admin.Group("/")
		potluckAPI.Use(s.requireApproved(false), s.requireAdmin)
		potluckAPI.GET("/settings", s.handleGetSettings)
		potluckAPI.POST("/entries", s.handleAdminCreateEntry)
		potluckAPI.DELETE("/entries/:id", s.handleAdminDeleteEntry)
		potluckAPI.POST("/votes", s.handleAdminCastVote)
		potluckAPI.GET("/proxies", s.handleAdminProxies)
		potluckAPI.GET("/events", s.handleAdminEvents)
	}
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	sqlDB, err := s.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
