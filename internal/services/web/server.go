package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	"github.com/louisbranch/liftboard/internal/platform/timeouts"
	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/composition"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/observability"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/liftboard/internal/services/web/static"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	Service  *boardapp.Service
	Logger   *zap.Logger
	// RequestSchemePolicy controls trust of proxy forwarding headers.
	RequestSchemePolicy requestmeta.SchemePolicy
	// RateLimit sizes the per-client mutation window. A zero request count
	// disables limiting.
	RateLimit ratelimit.WindowParameters
	// WASMDir serves a WebAssembly client build under /client/ and switches
	// pages to load it.
	WASMDir string
}

// Server hosts the board HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewHandler builds the root handler with its middleware chain.
func NewHandler(config Config) (http.Handler, error) {
	if config.Service == nil {
		return nil, errors.New("board service is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	assets, err := static.Load()
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}
	var limiter *ratelimit.Limiter
	if config.RateLimit.RequestCount > 0 {
		limiter, err = ratelimit.NewLimiter(config.RateLimit, logger.Named("ratelimit"))
		if err != nil {
			return nil, fmt.Errorf("build rate limiter: %w", err)
		}
	}
	wasmDir := strings.TrimSpace(config.WASMDir)
	principal := newPrincipalResolver(config.Service, logger)

	handler, err := composition.ComposeAppHandler(composition.ComposeInput{
		Dependencies: module.Dependencies{
			Service:       config.Service,
			ResolveViewer: principal.resolveViewer,
			Logger:        logger,
			SchemePolicy:  config.RequestSchemePolicy,
			ClientEnabled: wasmDir != "",
			Assets:        assets,
			WASMDir:       wasmDir,
		},
		Limiter: limiter,
	})
	if err != nil {
		return nil, fmt.Errorf("compose handler: %w", err)
	}
	return httpx.Chain(handler,
		httpx.RequestID(),
		observability.RequestLogger(logger),
		httpx.RecoverPanic(logger),
		withRequestPrincipalState(),
	), nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ErrorLog:          zap.NewStdLog(logger.Named("http")),
		},
		logger: logger,
	}, nil
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the HTTP server on listener until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("web server listening", zap.String("addr", listener.Addr().String()))
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the server immediately.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		s.logger.Warn("close http server", zap.Error(err))
	}
}
