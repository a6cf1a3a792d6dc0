// Package gcs stores staged audio in Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"speech-relay/internal/app/storage"
)

const uriScheme = "gs"

// newWriter opens a write stream for one object
type newWriter func(ctx context.Context, bucket, key, contentType string) io.WriteCloser

// Store implements storage.BlobStore on a GCS bucket
type Store struct {
	client *gcstorage.Client
	bucket string
	writer newWriter
	logger *zap.Logger
}

// New creates a GCS client authenticated with opts
func New(ctx context.Context, bucket string, logger *zap.Logger, opts ...option.ClientOption) (*Store, error) {
	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	s := newStore(bucket, func(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
		w := client.Bucket(bucket).Object(key).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}, logger)
	s.client = client
	return s, nil
}

func newStore(bucket string, writer newWriter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		bucket: bucket,
		writer: writer,
		logger: logger.Named("storage.gcs"),
	}
}

// Upload streams the local file into bucket/key. The object only becomes
// visible once the writer is closed without error.
func (s *Store) Upload(ctx context.Context, localPath, key string) (*storage.Object, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.writer(ctx, s.bucket, key, storage.ContentType(key))
	size, err := io.Copy(w, f)
	if err != nil {
		// Cancelling abandons the write; Close would commit a partial object.
		cancel()
		return nil, fmt.Errorf("failed to write gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gs://%s/%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("Uploaded object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int64("size", size))

	return &storage.Object{
		Bucket:     s.bucket,
		Key:        key,
		Size:       size,
		URI:        s.URI(key),
		UploadedAt: time.Now(),
	}, nil
}

// URI returns the gs:// reference Google services accept
func (s *Store) URI(key string) string {
	return storage.ObjectURI(uriScheme, s.bucket, key)
}

// Bucket returns the target bucket name
func (s *Store) Bucket() string {
	return s.bucket
}

// Close releases the client
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
