// Package api exposes classification over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dsemotion/app"
	"dsemotion/internal"

	"github.com/gin-gonic/gin"
)

// MaxRequestBytes caps the size of a classification request body.
const MaxRequestBytes = 32 << 20

// Server routes HTTP requests to the classification service
type Server struct {
	router  *gin.Engine
	service *app.ClassificationService
	logger  *internal.Logger
}

// NewServer creates the router and registers every route
func NewServer(service *app.ClassificationService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  logger.WithComponent("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	v1.GET("/knowledge-base", s.handleKnowledgeBase)
	v1.POST("/classify", s.handleClassify)
	v1.GET("/runs", s.handleListRuns)
	v1.GET("/runs/:id", s.handleGetRun)
}

// requestLogger logs one line per request at debug level, errors at warn.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		if status >= http.StatusInternalServerError {
			s.logger.Warn("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		s.logger.Debug("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
