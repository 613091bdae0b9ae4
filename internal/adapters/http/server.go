// Package http wires the gin engine, the quote API routes and the
// operational endpoints into an http.Server.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotes-api/internal/platform/config"
)

// Server serves a gin engine until its context ends, then drains
// in-flight requests for at most ShutdownTimeout.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	cfg    *config.ServerConfig
	logger *slog.Logger

	// listening is closed once ln is bound.
	listening chan struct{}
	ln        net.Listener
}

// New builds a server whose engine caps request bodies at cfg.MaxRequestSize.
// Routes are added with SetupRouter before calling Run.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(limitBody(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:       cfg,
		logger:    logger,
		listening: make(chan struct{}),
	}
}

// Engine returns the underlying gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig { return s.cfg }

// Listening is closed once Run has bound its address.
func (s *Server) Listening() <-chan struct{} { return s.listening }

// Addr is the bound address once listening, so port 0 resolves to the
// real port. Before that it is the configured address.
func (s *Server) Addr() string {
	select {
	case <-s.listening:
		return s.ln.Addr().String()
	default:
		return s.srv.Addr
	}
}

// Run binds the address and serves until ctx is cancelled or serving fails.
// It returns nil after a clean drain.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	s.ln = ln
	close(s.listening)

	s.logger.Info("quotes API listening",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("read_timeout", s.cfg.ReadTimeout),
		slog.Duration("write_timeout", s.cfg.WriteTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("draining HTTP server", slog.Duration("timeout", s.cfg.ShutdownTimeout))

		if err := s.srv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}

		s.logger.Info("HTTP server stopped")

		return nil
	})

	return g.Wait()
}

// limitBody caps the request body. Reading past the cap fails, so an
// oversized JSON body surfaces as a binding error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
