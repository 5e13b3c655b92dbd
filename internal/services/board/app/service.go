// Package app implements board use cases on top of storage and blob backends.
//
// Handlers pass the request Viewer into every operation; authorization and
// ownership checks happen here, never in the transport layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/liftboard/internal/platform/id"
	"github.com/louisbranch/liftboard/internal/platform/otel"
	"github.com/louisbranch/liftboard/internal/platform/password"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/thumbcache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultPageSize matches the front page's top-ten listing.
	DefaultPageSize = 10
	// DefaultSessionTTL bounds how long a sign-in lasts.
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// Config wires a Service.
type Config struct {
	Store      storage.Store
	Blobs      blob.Store
	Thumbnails *thumbcache.Cache
	Hasher     password.Hasher
	Logger     *zap.Logger

	SessionTTL        time.Duration
	MaxThumbnailBytes int64
	PageSize          int

	// Now and NewID default to the wall clock and id.NewID.
	Now   func() time.Time
	NewID func() (string, error)
}

// Service runs board operations.
type Service struct {
	store      storage.Store
	blobs      blob.Store
	thumbnails *thumbcache.Cache
	hasher     password.Hasher
	logger     *zap.Logger
	tracer     trace.Tracer

	sessionTTL        time.Duration
	maxThumbnailBytes int64
	pageSize          int

	now      func() time.Time
	newID    func() (string, error)
	newToken func() (string, error)
}

// New validates cfg and returns a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Blobs == nil {
		return nil, errors.New("blob store is required")
	}
	s := &Service{
		store:             cfg.Store,
		blobs:             cfg.Blobs,
		thumbnails:        cfg.Thumbnails,
		hasher:            cfg.Hasher,
		logger:            cfg.Logger,
		tracer:            otel.Tracer("github.com/louisbranch/liftboard/internal/services/board/app"),
		sessionTTL:        cfg.SessionTTL,
		maxThumbnailBytes: cfg.MaxThumbnailBytes,
		pageSize:          cfg.PageSize,
		now:               cfg.Now,
		newID:             cfg.NewID,
		newToken:          id.NewToken,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	if s.maxThumbnailBytes <= 0 {
		s.maxThumbnailBytes = DefaultMaxThumbnailBytes
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = id.NewID
	}
	return s, nil
}

// PageSize returns the number of items per listing page.
func (s *Service) PageSize() int { return s.pageSize }

// MaxThumbnailBytes returns the upload cap.
func (s *Service) MaxThumbnailBytes() int64 { return s.maxThumbnailBytes }

// SessionTTL returns how long new sessions last.
func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// start opens a span and returns a finisher that records *errp on it.
func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(errp *error)) {
	ctx, span := s.tracer.Start(ctx, "board."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}

func (s *Service) generateID() (string, error) {
	value, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return value, nil
}

// removeThumbnail deletes a stored image and its cache entry. Failures are
// logged because the owning row is already gone.
func (s *Service) removeThumbnail(ctx context.Context, postID string) {
	s.thumbnails.Invalidate(postID)
	if err := s.blobs.Delete(ctx, postID); err != nil {
		s.logger.Error("delete thumbnail", zap.String("post_id", postID), zap.Error(err))
	}
}
