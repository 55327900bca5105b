// Package server exposes consoled over HTTP: health, process control,
// console introspection, Prometheus metrics, and a websocket terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/proc"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/monitoring"
)

const shutdownTimeout = 5 * time.Second

// Console is the part of the console the server drives.
type Console interface {
	Intr(c byte)
	History() []string
	Pending() int
	Editing() string
}

// Procs is the part of the process table the server drives.
type Procs interface {
	List() []proc.Info
	Kill(pid int) error
}

// Line is a serial line that accepts output sinks.
type Line interface {
	Attach(w io.Writer) (detach func())
}

// Deps are the components the server fronts.
type Deps struct {
	Console Console
	Procs   Procs
	Line    Line
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// Server wraps the HTTP router and the components it exposes.
type Server struct {
	router  *gin.Engine
	cons    Console
	procs   Procs
	line    Line
	metrics *monitoring.Metrics
	logger  *zap.Logger
	config  *config.Config
}

// New creates a server instance and registers its routes.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(CORS(DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(RateLimit(RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router:  router,
		cons:    deps.Console,
		procs:   deps.Procs,
		line:    deps.Line,
		metrics: metrics,
		logger:  logger.Named("http"),
		config:  cfg,
	}

	router.GET("/health", s.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/procs", s.ListProcs)
	router.DELETE("/procs/:pid", s.KillProc)

	router.GET("/console", s.ConsoleState)
	router.GET("/console/ws", s.Terminal)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
