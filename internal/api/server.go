// Package api serves the curated feed over a small read-only HTTP API.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/metrics"
	"github.com/kiwifruitpeter/curator/internal/model"
	"github.com/kiwifruitpeter/curator/internal/store"
)

// Server exposes stored records and video ideas.
type Server struct {
	store   *store.Store
	results *cache.Cache
	engine  *gin.Engine
}

// New creates the API server. results may be nil; the cache stats
// endpoint then reports an empty snapshot.
func New(st *store.Store, results *cache.Cache) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{store: st, results: results, engine: engine}

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	{
		api.GET("/feed", s.getFeed)
		api.GET("/ideas", s.getIdeas)
		api.GET("/records/:id/ideas", s.getRecordIdeas)
		api.GET("/stats", s.getStats)
	}

	return s
}

// Run starts the server on addr, blocking until it stops.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	records, err := s.store.GetRecords(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []model.Record{}
	}

	c.JSON(http.StatusOK, model.NewDocument(records))
}

func (s *Server) getIdeas(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	artifacts, err := s.store.AllArtifacts(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if artifacts == nil {
		artifacts = []model.Artifact{}
	}

	c.JSON(http.StatusOK, model.NewArtifactDocument(artifacts))
}

func (s *Server) getRecordIdeas(c *gin.Context) {
	artifacts, err := s.store.GetArtifacts(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(artifacts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ideas for record"})
		return
	}

	c.JSON(http.StatusOK, model.NewArtifactDocument(artifacts))
}

func (s *Server) getStats(c *gin.Context) {
	count, err := s.store.RecordCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var cacheStats cache.Stats
	if s.results != nil {
		cacheStats = s.results.Stats()
	}

	c.JSON(http.StatusOK, gin.H{
		"records": count,
		"cache": gin.H{
			"size":      cacheStats.Size,
			"capacity":  cacheStats.Capacity,
			"hits":      cacheStats.Hits,
			"misses":    cacheStats.Misses,
			"evictions": cacheStats.Evictions,
		},
	})
}
