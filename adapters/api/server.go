// Package api exposes generation and evaluation over HTTP. The public JSON
// API is served by gin; health, metrics and profiling live on a separate chi
// admin router.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"simrng/app"
	apperrors "simrng/internal/errors"
	"simrng/internal/logging"
)

// Options configures the public server
type Options struct {
	GinMode     string
	CORSOrigins []string
}

// Server handles the public API
type Server struct {
	router     *gin.Engine
	generation *app.GenerationService
	statistics *app.StatisticsService
	logger     *logging.Logger
}

// NewServer creates the public API server and registers its routes
func NewServer(opts Options, generation *app.GenerationService, statistics *app.StatisticsService, logger *logging.Logger) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	s := &Server{
		router:     gin.New(),
		generation: generation,
		statistics: statistics,
		logger:     logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger(), cors(opts.CORSOrigins))
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/generate", s.handleGenerate)

	// Per-distribution endpoints kept for older clients
	api.POST("/uniform", s.handleLegacyGenerate(legacyUniform))
	api.POST("/normal-bm", s.handleLegacyGenerate(legacyNormalBoxMuller))
	api.POST("/normal-conv", s.handleLegacyGenerate(legacyNormalConvolution))
	api.POST("/exponential", s.handleLegacyGenerate(legacyExponential))
	api.POST("/poisson", s.handleLegacyGenerate(legacyPoisson))

	api.GET("/histogram", s.handleHistogram)
	api.GET("/statistics", s.handleStatistics)
	api.GET("/numbers", s.handleNumbers)
	api.GET("/summary", s.handleSummary)
	api.GET("/evaluations", s.handleEvaluations)
	api.GET("/export.xlsx", s.handleExport)
	api.GET("/report", s.handleReport)
}

// fail writes err as {"error", "code"} with the status its code maps to.
func (s *Server) fail(c *gin.Context, err error) {
	err = apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// cors allows the configured origins; "*" allows any.
func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || allowed[origin]) {
			h := c.Writer.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
