// Package minio stores staged audio in any S3-compatible bucket, including
// GCS buckets reached through the XML interoperability endpoint.
package minio

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"speech-relay/internal/app/storage"
)

// Config holds the S3 endpoint settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	URIScheme string
}

// objectPutter is the subset of *minio.Client used for uploads
type objectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store implements storage.BlobStore using MinIO
type Store struct {
	client    objectPutter
	bucket    string
	uriScheme string
	logger    *zap.Logger
}

// New creates the client and makes sure the bucket exists
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return newStore(client, cfg.Bucket, cfg.URIScheme, logger), nil
}

func newStore(client objectPutter, bucket, uriScheme string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if uriScheme == "" {
		uriScheme = "s3"
	}
	return &Store{
		client:    client,
		bucket:    bucket,
		uriScheme: uriScheme,
		logger:    logger.Named("storage.minio"),
	}
}

// Upload copies the local file to bucket/key
func (s *Store) Upload(ctx context.Context, localPath, key string) (*storage.Object, error) {
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: storage.ContentType(key),
		UserMetadata: map[string]string{
			"uploaded-at": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to MinIO: %w", err)
	}

	s.logger.Debug("Uploaded object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int64("size", info.Size))

	return &storage.Object{
		Bucket:     s.bucket,
		Key:        key,
		Size:       info.Size,
		URI:        s.URI(key),
		UploadedAt: time.Now(),
	}, nil
}

// URI returns the configured-scheme reference for key
func (s *Store) URI(key string) string {
	return storage.ObjectURI(s.uriScheme, s.bucket, key)
}

// Bucket returns the target bucket name
func (s *Store) Bucket() string {
	return s.bucket
}
