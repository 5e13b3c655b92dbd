// Package liftboard parses board service configuration and runs the HTTP
// server alongside the session sweeper.
package liftboard

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	entrypoint "github.com/louisbranch/liftboard/internal/platform/cmd"
	"github.com/louisbranch/liftboard/internal/platform/config"
	"github.com/louisbranch/liftboard/internal/platform/logging"
	"github.com/louisbranch/liftboard/internal/platform/password"
	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/storage/sqlite"
	"github.com/louisbranch/liftboard/internal/services/board/sweeper"
	"github.com/louisbranch/liftboard/internal/services/board/thumbcache"
	"github.com/louisbranch/liftboard/internal/services/web"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
)

// Config holds the board command configuration. Variables carry the
// LIFTBOARD_ prefix.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"DB_PATH" envDefault:"data/liftboard.db"`
	Blob     blob.Config

	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" envDefault:"2097152"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionSweep       time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`
	PageSize           int           `env:"PAGE_SIZE" envDefault:"10"`
	ThumbnailCacheSize int           `env:"THUMBNAIL_CACHE_SIZE" envDefault:"256"`

	RateLimitRequests   int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	RateLimitWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO"`

	WASMDir string `env:"WASM_DIR"`
	Log     logging.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithPrefix(&cfg, config.Prefix); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.WASMDir, "wasm-dir", cfg.WASMDir, "directory holding the WebAssembly client build")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path is required")
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		return errors.New("rate limit window must be positive")
	}
	return nil
}

// Run starts the board service and blocks until ctx ends or a component
// fails.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", entrypoint.ServiceBoard))

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceBoard, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return serve(ctx, cfg, logger)
	})
}

func serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close board store", zap.Error(err))
		}
	}()

	blobs, err := blob.Open(ctx, cfg.Blob, logger.Named("blob"))
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Warn("close blob store", zap.Error(err))
		}
	}()

	service, err := boardapp.New(boardapp.Config{
		Store:             store,
		Blobs:             blobs,
		Thumbnails:        thumbcache.New(cfg.ThumbnailCacheSize),
		Hasher:            password.NewHasher(),
		Logger:            logger.Named("board"),
		SessionTTL:        cfg.SessionTTL,
		MaxThumbnailBytes: cfg.MaxUploadBytes,
		PageSize:          cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("init board service: %w", err)
	}

	server, err := web.NewServer(web.Config{
		HTTPAddr:            cfg.HTTPAddr,
		Service:             service,
		Logger:              logger.Named("web"),
		RequestSchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		RateLimit: ratelimit.WindowParameters{
			Duration:     cfg.RateLimitWindow,
			RequestCount: cfg.RateLimitRequests,
		},
		WASMDir: cfg.WASMDir,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(groupCtx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return sweeper.New(service, cfg.SessionSweep, logger.Named("sweeper")).Run(groupCtx)
	})
	return group.Wait()
}
