package relay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "speech-relay/internal/app/errors"
)

func TestStager_Stage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	stager := NewStager(root, 0)

	session, err := stager.Stage("audio", "talk.mp3", bytes.NewReader([]byte("abc")))
	require.NoError(t, err)

	assert.Equal(t, "audio", session.FieldName)
	assert.Equal(t, "talk.mp3", session.Filename)
	assert.Equal(t, int64(3), session.Size)
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", session.SHA256)
	assert.Equal(t, "talk.mp3", filepath.Base(session.Path))
	assert.Equal(t, root, filepath.Dir(filepath.Dir(session.Path)))

	content, err := os.ReadFile(session.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), content)

	require.NoError(t, session.Release())
	_, err = os.Stat(session.Path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, session.Release(), "release is idempotent")
}

func TestStager_SameFilenameGetsDistinctPaths(t *testing.T) {
	stager := NewStager(t.TempDir(), 0)

	first, err := stager.Stage("audio", "same.mp3", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	defer first.Release()
	second, err := stager.Stage("audio", "same.mp3", bytes.NewReader([]byte("two")))
	require.NoError(t, err)
	defer second.Release()

	assert.NotEqual(t, first.Path, second.Path)
	c1, _ := os.ReadFile(first.Path)
	c2, _ := os.ReadFile(second.Path)
	assert.Equal(t, "one", string(c1))
	assert.Equal(t, "two", string(c2))
}

func TestStager_StripsDirectoryComponents(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"../../etc/passwd", "passwd"},
		{"nested/dir/voice.mp3", "voice.mp3"},
		{"..", defaultFilename},
		{"/", defaultFilename},
	}

	root := t.TempDir()
	stager := NewStager(root, 0)
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			session, err := stager.Stage("audio", tt.filename, bytes.NewReader([]byte("x")))
			require.NoError(t, err)
			defer session.Release()

			assert.Equal(t, tt.want, session.Filename)
			assert.Equal(t, root, filepath.Dir(filepath.Dir(session.Path)))
		})
	}
}

func TestStager_SizeLimit(t *testing.T) {
	root := t.TempDir()

	exact, err := NewStager(root, 3).Stage("audio", "ok.mp3", bytes.NewReader([]byte("abc")))
	require.NoError(t, err)
	require.NoError(t, exact.Release())

	_, err = NewStager(root, 3).Stage("audio", "big.mp3", bytes.NewReader([]byte("abcd")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUploadTooLarge))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStager_ReadErrorLeavesNothingBehind(t *testing.T) {
	root := t.TempDir()

	_, err := NewStager(root, 0).Stage("audio", "broken.mp3", iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStagingFailed))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
