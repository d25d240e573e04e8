package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/bastiangx/ngserve/internal/logger"
	"github.com/bastiangx/ngserve/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// HTTPServer serves completions as JSON.
type HTTPServer struct {
	handler
	router *gin.Engine
}

// NewHTTPServer builds the gin router for engine.
func NewHTTPServer(engine Engine, cfg *config.Config) *HTTPServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &HTTPServer{
		handler: handler{
			engine:   engine,
			maxLimit: cfg.Server.MaxLimit,
			logger:   logger.New("http"),
		},
	}
	s.router = s.setupRouter()
	return s
}

func (s *HTTPServer) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(recoveryMiddleware(s.logger))
	router.Use(loggerMiddleware(s.logger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/complete", s.handleComplete)
		v1.GET("/stats", s.handleStats)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
		})
	}
	return router
}

// Handler returns the router, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run listens on addr until the listener fails.
func (s *HTTPServer) Run(addr string) error {
	s.logger.Infof("Listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *HTTPServer) handleComplete(c *gin.Context) {
	var request Request
	if err := c.ShouldBindJSON(&request); err != nil {
		s.logger.Debugf("Invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, CompletionError{
			Error: "invalid request payload: " + err.Error(),
			Code:  http.StatusBadRequest,
		})
		return
	}

	response, cerr := s.complete(request)
	if cerr != nil {
		c.JSON(cerr.Code, cerr)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *HTTPServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats(c.Query("id")))
}

func loggerMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
			"took", time.Since(start),
		)
	}
}

func recoveryMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, CompletionError{
					Error: "internal server error",
					Code:  http.StatusInternalServerError,
				})
			}
		}()
		c.Next()
	}
}
