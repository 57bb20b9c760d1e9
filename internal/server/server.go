// Package server exposes the vector service over JSON/HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/vectord/internal/config"
	"github.com/hyperjump/vectord/internal/models"
	"go.uber.org/zap"
)

// VectorService is the subset of the service the HTTP layer calls.
type VectorService interface {
	Init(ctx context.Context) (*models.InitResponse, error)
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	Status(ctx context.Context) (*models.StatusResponse, error)
}

// Server is the HTTP server for the vectord API.
type Server struct {
	svc     VectorService
	config  *config.ServerConfig
	logger  *zap.Logger
	handler http.Handler
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc VectorService, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:    svc,
		config: cfg,
		logger: logger,
	}
	s.handler = s.routes()
	s.server = &http.Server{Handler: s.handler}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/init", s.handleInit)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server and blocks until it stops.
// It returns nil after a graceful Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Stop is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting server", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
