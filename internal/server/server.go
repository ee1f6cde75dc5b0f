// Package server exposes the generation pipeline over HTTP: a static operator
// dashboard, a serialized /generate endpoint, and a health check.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"copyforge/internal/content"
)

// Generator runs one content-generation request end to end.
type Generator interface {
	Generate(ctx context.Context, req content.GenerationRequest) (content.GenerationResult, error)
}

// Options configures the HTTP layer.
type Options struct {
	// DashboardPath is the static HTML file served at GET /.
	DashboardPath string

	// AllowOrigins configures CORS. "*" allows any origin.
	AllowOrigins []string
}

// Handler holds the route dependencies. One Chrome drives one conversation at
// a time, so /generate is guarded by a semaphore of weight one; concurrent
// callers queue rather than fail.
type Handler struct {
	gen  Generator
	opts Options
	log  *zap.Logger
	sem  *semaphore.Weighted
}

// NewHandler wires the HTTP layer around gen.
func NewHandler(gen Generator, opts Options, log *zap.Logger) *Handler {
	return &Handler{
		gen:  gen,
		opts: opts,
		log:  log,
		sem:  semaphore.NewWeighted(1),
	}
}

// Router builds the gin engine with logging, recovery, and CORS installed.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(GinZapLogger(h.log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(h.opts.AllowOrigins) == 1 && h.opts.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else if len(h.opts.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = h.opts.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/", h.dashboard)
	router.POST("/generate", h.generate)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	return router
}

// dashboard serves the operator page, or a JSON 404 when the file is absent.
func (h *Handler) dashboard(c *gin.Context) {
	if _, err := os.Stat(h.opts.DashboardPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
		return
	}
	c.File(h.opts.DashboardPath)
}

// generate runs one generation. Requests are serialized; a client that gives
// up while queued gets 503.
func (h *Handler) generate(c *gin.Context) {
	var req content.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, content.GenerationResult{
			Titles:       []string{},
			Descriptions: []string{},
			Bullets:      []string{},
			Error:        "invalid request: " + err.Error(),
		})
		return
	}

	if err := h.sem.Acquire(c.Request.Context(), 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, content.GenerationResult{
			Titles:       []string{},
			Descriptions: []string{},
			Bullets:      []string{},
			Error:        "request canceled while waiting for the generation slot",
		})
		return
	}
	defer h.sem.Release(1)

	res, err := h.gen.Generate(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}
