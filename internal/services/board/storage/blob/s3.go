package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/louisbranch/liftboard/internal/platform/timeouts"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Config locates an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Bucket    string `env:"S3_BUCKET" envDefault:"liftboard"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"true"`
	// Attempts bounds retries of transient failures on writes and deletes.
	Attempts uint          `env:"S3_ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"S3_RETRY_DELAY" envDefault:"200ms"`
}

// S3Store keeps objects in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
	opts   []retry.Option
}

// OpenS3 connects to the bucket, creating it when missing.
func OpenS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 1
	}
	store := &S3Store{
		client: client,
		bucket: bucket,
		logger: logger.Named("s3"),
	}
	store.opts = []retry.Option{
		retry.Attempts(attempts),
		retry.Delay(cfg.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			store.logger.Warn("s3 request failed, retrying",
				zap.Uint("attempt", attempt+1),
				zap.Uint("attempts", attempts),
				zap.Error(err),
			)
		}),
	}

	if err := store.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *S3Store) ensureBucket(ctx context.Context, region string) error {
	return s.do(ctx, func(ctx context.Context) error {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			return fmt.Errorf("check s3 bucket: %w", err)
		}
		if exists {
			return nil
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("create s3 bucket: %w", err)
		}
		return nil
	})
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	return s.do(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return fmt.Errorf("put s3 object: %w", err)
		}
		return nil
	})
}

// Get downloads the object under key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(ctx, key); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.BlobRequest)
	defer cancel()
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError("get s3 object", err)
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, s.mapError("read s3 object", err)
	}
	return data, nil
}

// Delete removes the object under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	return s.do(ctx, func(ctx context.Context) error {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			if isNoSuchKey(err) {
				return nil
			}
			return fmt.Errorf("remove s3 object: %w", err)
		}
		return nil
	})
}

// Close is a no-op; the client holds no long-lived resources.
func (s *S3Store) Close() error { return nil }

func (s *S3Store) do(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := append([]retry.Option{retry.Context(ctx)}, s.opts...)
	return retry.Do(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeouts.BlobRequest)
		defer cancel()
		return fn(attemptCtx)
	}, opts...)
}

func (s *S3Store) mapError(op string, err error) error {
	if isNoSuchKey(err) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func errorResponse(err error) minio.ErrorResponse {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp
	}
	return minio.ErrorResponse{}
}

func isNoSuchKey(err error) bool {
	return errorResponse(err).Code == "NoSuchKey"
}

// isRetryable skips client errors that another attempt cannot fix.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidKey) {
		return false
	}
	status := errorResponse(err).StatusCode
	return status == 0 || status >= 500 || status == 429
}

var _ Store = (*S3Store)(nil)
