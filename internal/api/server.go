package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"reelcap/internal/config"
	"reelcap/internal/logging"
	"reelcap/internal/runstore"
	"reelcap/internal/textmetrics"
)

// Server wraps the HTTP listener for the plan API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// ServerConfig carries the dependencies the handlers use. Store may be nil,
// in which case run endpoints report 503.
type ServerConfig struct {
	Config    *config.Config
	Store     *runstore.Store
	Fonts     *textmetrics.OpenType
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
}

// NewServer builds a server bound to cfg.Config.Paths.APIBind.
func NewServer(cfg ServerConfig) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Config.Paths.APIBind,
			Handler:           newRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.Config == nil {
		def := config.Default()
		cfg.Config = &def
	}
	cfg.Logger = logging.NewComponentLogger(cfg.Logger, "api")
	if cfg.Fonts == nil {
		cfg.Fonts = textmetrics.NewOpenType()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return cfg
}

// Start listens on the configured address and blocks until shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("starting HTTP server", logging.String("addr", listener.Addr().String()))
	err := s.httpServer.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
