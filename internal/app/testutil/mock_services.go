package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"speech-relay/internal/app/speech"
	"speech-relay/internal/app/storage"
)

// MockBlobStore is a mock implementation of storage.BlobStore.
// Upload returns a *storage.Object built from the key unless the expectation
// returns an error.
type MockBlobStore struct {
	mock.Mock

	bucket string

	mu     sync.Mutex
	staged map[string][]byte
	paths  map[string]string
}

func NewMockBlobStore(t *testing.T, bucket string) *MockBlobStore {
	m := &MockBlobStore{
		bucket: bucket,
		staged: make(map[string][]byte),
		paths:  make(map[string]string),
	}
	m.Test(t)
	return m
}

func (m *MockBlobStore) Upload(ctx context.Context, localPath, key string) (*storage.Object, error) {
	content, readErr := os.ReadFile(localPath)

	m.mu.Lock()
	if readErr == nil {
		m.staged[key] = content
	}
	m.paths[key] = localPath
	m.mu.Unlock()

	args := m.Called(ctx, localPath, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &storage.Object{
		Bucket:     m.bucket,
		Key:        key,
		Size:       int64(len(content)),
		URI:        m.URI(key),
		UploadedAt: time.Now(),
	}, nil
}

func (m *MockBlobStore) URI(key string) string {
	return storage.ObjectURI("gs", m.bucket, key)
}

func (m *MockBlobStore) Bucket() string {
	return m.bucket
}

// StagedContent returns the bytes that were on disk when key was uploaded
func (m *MockBlobStore) StagedContent(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.staged[key]
	return content, ok
}

// StagedPath returns the local path passed to Upload for key
func (m *MockBlobStore) StagedPath(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paths[key]
}

// UploadedKeys lists every key Upload was called with
func (m *MockBlobStore) UploadedKeys() []string {
	keys := make([]string, 0)
	for _, call := range m.Calls {
		if call.Method == "Upload" {
			keys = append(keys, call.Arguments.String(2))
		}
	}
	return keys
}

// MockRecognizer is a mock implementation of speech.Recognizer
type MockRecognizer struct {
	mock.Mock
}

func NewMockRecognizer(t *testing.T) *MockRecognizer {
	m := &MockRecognizer{}
	m.Test(t)
	return m
}

func (m *MockRecognizer) Recognize(ctx context.Context, req *speech.Request) (*speech.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*speech.Result), args.Error(1)
}

func (m *MockRecognizer) Name() string {
	return "mock"
}

// MockTranscriptCache is a mock implementation of cache.TranscriptCache
type MockTranscriptCache struct {
	mock.Mock
}

func NewMockTranscriptCache(t *testing.T) *MockTranscriptCache {
	m := &MockTranscriptCache{}
	m.Test(t)
	return m
}

func (m *MockTranscriptCache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	args := m.Called(ctx, fingerprint)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockTranscriptCache) Set(ctx context.Context, fingerprint, transcript string) error {
	args := m.Called(ctx, fingerprint, transcript)
	return args.Error(0)
}
