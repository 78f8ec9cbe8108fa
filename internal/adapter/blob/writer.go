// Package blob writes run artifacts to S3-compatible object storage.
// Writes are idempotent at the key level: rerunning a window overwrites
// the previous object rather than creating a sibling.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/maghrebwx/weather-ingest/internal/config"
	"github.com/maghrebwx/weather-ingest/internal/domain"
)

// Writer stores artifacts in a single sink bucket.
type Writer struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewWriter creates a Writer from the service configuration.
func NewWriter(cfg *config.Config, logger *slog.Logger) (*Writer, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}
	return &Writer{
		client: client,
		bucket: cfg.SinkBucket,
		logger: logger,
	}, nil
}

// EnsureBucket creates the sink bucket if it does not exist. Called once
// at startup so runs never race on bucket creation.
func (w *Writer) EnsureBucket(ctx context.Context) error {
	exists, err := w.client.BucketExists(ctx, w.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", w.bucket, err)
	}
	if exists {
		return nil
	}
	if err := w.client.MakeBucket(ctx, w.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", w.bucket, err)
	}
	w.logger.Info("sink bucket created", "bucket", w.bucket)
	return nil
}

// Write stores payload at key, replacing any existing object.
func (w *Writer) Write(ctx context.Context, key string, payload []byte, contentType string) error {
	reader := bytes.NewReader(payload)
	_, err := w.client.PutObject(ctx, w.bucket, key, reader, int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return &domain.SinkError{Key: key, Err: err}
	}
	w.logger.Debug("artifact written", "key", key, "bytes", len(payload))
	return nil
}

// Read fetches the object at key. Used by the integration suite to verify
// written artifacts.
func (w *Writer) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := w.client.GetObject(ctx, w.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &domain.SinkError{Key: key, Err: err}
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, &domain.SinkError{Key: key, Err: err}
	}
	return buf.Bytes(), nil
}
