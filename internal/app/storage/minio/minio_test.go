package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestStore_Upload(t *testing.T) {
	client := &mockPutter{}
	client.On("FPutObject", mock.Anything, "users_drive_storage", "audio/1700000000000_talk.mp3", "/tmp/uploads/req/talk.mp3",
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType != "" })).
		Return(minio.UploadInfo{Size: 42}, nil).Once()

	s := newStore(client, "users_drive_storage", "gs", nil)
	obj, err := s.Upload(context.Background(), "/tmp/uploads/req/talk.mp3", "audio/1700000000000_talk.mp3")
	require.NoError(t, err)

	assert.Equal(t, int64(42), obj.Size)
	assert.Equal(t, "gs://users_drive_storage/audio/1700000000000_talk.mp3", obj.URI)
	client.AssertExpectations(t)
}

func TestStore_UploadFailure(t *testing.T) {
	client := &mockPutter{}
	client.On("FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	_, err := newStore(client, "b", "", nil).Upload(context.Background(), "/tmp/a.mp3", "audio/1_a.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_DefaultScheme(t *testing.T) {
	s := newStore(&mockPutter{}, "b", "", nil)
	assert.Equal(t, "s3://b/audio/k.mp3", s.URI("audio/k.mp3"))
	assert.Equal(t, "b", s.Bucket())
}
