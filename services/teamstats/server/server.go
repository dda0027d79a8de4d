// Package server exposes the aggregated team statistics as a JSON API
// for the dashboard frontend.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"forzestats-backend/lib/timezone"
	"forzestats-backend/services/teamstats"
)

type Server struct {
	service *teamstats.Service
	started time.Time
}

func New(service *teamstats.Service) *Server {
	return &Server{service: service, started: timezone.Now()}
}

// Router builds the gin engine with all dashboard routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger())

	router.GET("/health", s.health)

	forze := router.Group("/api/forze")
	{
		forze.GET("/matches", s.matches)
		forze.GET("/roster", s.roster)
		forze.GET("/upcoming", s.upcoming)
	}

	api := router.Group("/api/faceit")
	{
		api.GET("/stats", s.faceitStats)
		api.GET("/matches", s.faceitMatches)
		api.GET("/info", s.faceitInfo)
		api.GET("/players", s.players)
		api.GET("/combined", s.combined)
	}

	router.GET("/api/stats/overview", s.overview)

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"time":   timezone.Now(),
	})
}

func (s *Server) matches(c *gin.Context) {
	resp, err := s.service.Matches(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) roster(c *gin.Context) {
	resp, err := s.service.Roster(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) upcoming(c *gin.Context) {
	resp, err := s.service.Upcoming(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) faceitStats(c *gin.Context) {
	resp, err := s.service.FaceitStats(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) faceitMatches(c *gin.Context) {
	resp, err := s.service.FaceitMatches(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matches":    resp.Matches,
		"totalCount": len(resp.Matches),
		"cached":     resp.Cached,
		"fallback":   resp.Fallback,
		"fetchedAt":  resp.FetchedAt,
	})
}

func (s *Server) players(c *gin.Context) {
	resp, err := s.service.Players(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) faceitInfo(c *gin.Context) {
	info, err := s.service.FaceitInfo(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) combined(c *gin.Context) {
	resp, err := s.service.Combined(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) overview(c *gin.Context) {
	resp, err := s.service.Overview(c.Request.Context())
	if err != nil {
		serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func serveError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		"path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// the dashboard is served from a different origin, keep CORS wide open
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
}
