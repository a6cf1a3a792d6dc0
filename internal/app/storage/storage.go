// Package storage defines the blob store the relay writes staged audio to.
package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"
)

// BlobStore uploads local files under a key and reports how a remote service
// can address them.
type BlobStore interface {
	Upload(ctx context.Context, localPath, key string) (*Object, error)
	URI(key string) string
	Bucket() string
}

// Object describes an uploaded blob
type Object struct {
	Bucket     string    `json:"bucket"`
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	URI        string    `json:"uri"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ObjectURI formats {scheme}://{bucket}/{key}
func ObjectURI(scheme, bucket, key string) string {
	return fmt.Sprintf("%s://%s/%s", scheme, bucket, key)
}

// ContentType guesses the MIME type from the key's extension
func ContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
