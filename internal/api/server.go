package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/device-template-core/internal/auth"
	"github.com/nerrad567/device-template-core/internal/template"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Config holds HTTP server settings.
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	TLSCertFile    string
	TLSKeyFile     string
}

// Deps carries the server's collaborators, injected at construction.
type Deps struct {
	Manager *template.Manager
	Auth    *auth.Manager
	Hub     *Hub
	Logger  Logger

	// HealthChecks are probed by the health endpoint, keyed by
	// dependency name.
	HealthChecks map[string]HealthCheck
}

// Server is the HTTP API server.
type Server struct {
	cfg        Config
	deps       Deps
	httpServer *http.Server
	logger     Logger
}

// New creates the API server with its routes configured.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}

	s := &Server{cfg: cfg, deps: deps, logger: deps.Logger}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start serves HTTP (or HTTPS when certificates are configured),
// blocking until the server stops.
func (s *Server) Start() error {
	s.logger.Info("api server starting", "addr", s.httpServer.Addr, "tls", s.cfg.TLSCertFile != "")

	var err error
	if s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "" {
		err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("api server shutting down")
	return s.httpServer.Shutdown(ctx)
}
