package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"drawforge/app"
	"drawforge/domain/core"
	"drawforge/internal/analysis"
	"drawforge/ports"
)

// Server exposes draw generation and randomness analysis as a JSON API.
// The repository is optional; without it batches are generated and analyzed
// but not persisted.
type Server struct {
	generator *app.GeneratorService
	engine    *analysis.Engine
	repo      ports.BatchRepository
	router    *gin.Engine
}

// NewServer wires the API routes.
func NewServer(generator *app.GeneratorService, engine *analysis.Engine, repo ports.BatchRepository) *Server {
	s := &Server{
		generator: generator,
		engine:    engine,
		repo:      repo,
		router:    gin.Default(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)
	s.router.POST("/api/draws", s.handleSingleDraw)
	s.router.POST("/api/batches", s.handleGenerateBatch)
	s.router.GET("/api/batches/:id", s.handleGetBatch)
	s.router.GET("/api/batches/:id/report", s.handleGetReport)
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	log.Printf("[API] listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSingleDraw generates one draw and returns it without persisting.
func (s *Server) handleSingleDraw(c *gin.Context) {
	batch, err := s.generator.GenerateBatch(c.Request.Context(), 1, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	d := batch.Draws[0]
	c.JSON(http.StatusOK, gin.H{
		"seed":    d.Seed.String(),
		"numbers": d.Numbers,
		"stars":   d.Stars,
	})
}

type generateBatchRequest struct {
	Draws   int  `json:"draws" binding:"required,min=1"`
	Workers int  `json:"workers"`
	Persist bool `json:"persist"`
}

// handleGenerateBatch generates a batch, analyzes it, and optionally
// persists both.
func (s *Server) handleGenerateBatch(c *gin.Context) {
	var req generateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Workers <= 0 {
		req.Workers = 1
	}

	ctx := c.Request.Context()
	batch, err := s.generator.GenerateBatchParallel(ctx, req.Draws, req.Workers, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report, err := s.engine.Analyze(batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Persist {
		if s.repo == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "persistence is not configured"})
			return
		}
		if err := s.repo.SaveBatch(ctx, batch); err != nil {
			log.Printf("[API] failed to persist batch %s: %v", batch.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist batch"})
			return
		}
		if err := s.repo.SaveReport(ctx, batch.ID, report); err != nil {
			log.Printf("[API] failed to persist report for batch %s: %v", batch.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist report"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"batch":  batch,
		"report": report,
	})
}

func (s *Server) handleGetBatch(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "persistence is not configured"})
		return
	}
	id, err := core.ParseBatchID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	batch, err := s.repo.GetBatch(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (s *Server) handleGetReport(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "persistence is not configured"})
		return
	}
	id, err := core.ParseBatchID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := s.repo.GetReport(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
