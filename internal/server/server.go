// Package server is the noteship backend: it relays chat messages and note
// requests to the model service and hosts the chat widget.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/noteship/noteship/internal/ai"
	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/models"
	"github.com/noteship/noteship/internal/render"
)

// DefaultMaxBodyBytes bounds request bodies when the config leaves it unset
const DefaultMaxBodyBytes = 64 << 10

// Server hosts the backend routes
type Server struct {
	cfg      config.Config
	replier  ai.Replier
	logger   zerolog.Logger
	limiter  *rate.Limiter
	htmlOpts render.HTMLOptions
	handler  http.Handler

	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithLimiter replaces the limiter built from the config
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// New creates a Server answering with replier
func New(cfg config.Config, replier ai.Replier, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		replier:  replier,
		logger:   zerolog.Nop(),
		htmlOpts: render.HTMLOptionsFromConfig(cfg),
	}
	if cfg.Server.RateLimit > 0 {
		burst := cfg.Server.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), burst)
	}
	if s.cfg.Server.MaxBodyBytes <= 0 {
		s.cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	for _, opt := range opts {
		opt(s)
	}

	s.handler = s.routes()
	return s
}

// Handler returns the full middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.handleIndex())
	mux.Handle("GET /static/", s.handleStatic())
	mux.HandleFunc("GET "+models.PathHealth, s.handleHealth)
	mux.Handle("POST "+models.PathChat, s.rateLimit(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST "+models.PathNotes, s.rateLimit(http.HandlerFunc(s.handleNotes)))
	mux.HandleFunc("POST "+models.PathRender, s.handleRender)

	var h http.Handler = mux
	h = s.limitBody(h)
	h = s.cors(h)
	h = s.accessLog(h)
	h = requestID(h)
	h = s.recoverer(h)
	return h
}

// Start listens on the configured address and serves until ctx is done or
// Shutdown is called. It returns once the listener is open.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("model", modelName(s.replier)).
		Msg("noteship backend started")

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	return nil
}

// Addr returns the bound address once Start has succeeded
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func modelName(r ai.Replier) string {
	if m, ok := r.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}
