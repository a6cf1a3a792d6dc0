package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	field    string
	filename string
	content  []byte
}

func relayStub(t *testing.T, status int, body string, got *received) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)

		if got != nil {
			mr, err := r.MultipartReader()
			require.NoError(t, err)
			part, err := mr.NextPart()
			require.NoError(t, err)
			got.field = part.FormName()
			got.filename = part.FileName()
			got.content, _ = io.ReadAll(part)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeAudio(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.mp3")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestSubmit_NoFileSelected(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	u := New(srv.URL)
	_, err := u.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNoFileSelected)
	assert.False(t, called, "no request without a file")
	assert.False(t, u.State().Transcribing)
}

func TestSubmit_Success(t *testing.T) {
	content := bytes.Repeat([]byte("mp3"), 10000)
	var got received
	srv := relayStub(t, http.StatusOK, `{"transcript":"hello world"}`, &got)

	var mu sync.Mutex
	var updates []int
	u := New(srv.URL+"/", WithProgress(func(p int) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	}))
	u.SelectFile(writeAudio(t, content))

	transcript, err := u.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "hello world", transcript)
	assert.Equal(t, "audio", got.field)
	assert.Equal(t, "voice.mp3", got.filename)
	assert.Equal(t, content, got.content)

	state := u.State()
	assert.Equal(t, "hello world", state.Transcript)
	assert.False(t, state.Transcribing)
	assert.Equal(t, 100, state.Progress)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, updates)
	assert.IsIncreasing(t, updates)
	assert.Equal(t, 100, updates[len(updates)-1])
}

func TestSubmit_ServerError(t *testing.T) {
	srv := relayStub(t, http.StatusInternalServerError, `{"error":"Error processing audio"}`, nil)

	u := New(srv.URL)
	u.SelectFile(writeAudio(t, []byte("abc")))

	_, err := u.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTranscriptionFailed))
	assert.Contains(t, err.Error(), "Error processing audio")

	state := u.State()
	assert.False(t, state.Transcribing)
	assert.Empty(t, state.Transcript)
}

func TestSubmit_KeepsPreviousTranscriptOnFailure(t *testing.T) {
	ok := relayStub(t, http.StatusOK, `{"transcript":"first"}`, nil)
	u := New(ok.URL)
	u.SelectFile(writeAudio(t, []byte("abc")))
	_, err := u.Submit(context.Background())
	require.NoError(t, err)

	failing := relayStub(t, http.StatusBadRequest, `{"error":"No audio file uploaded"}`, nil)
	u.endpoint = failing.URL + "/api/upload"
	_, err = u.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "first", u.State().Transcript)
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	u := New(url)
	u.SelectFile(writeAudio(t, []byte("abc")))

	_, err := u.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))
	assert.False(t, u.State().Transcribing)
}

func TestSubmit_MissingFile(t *testing.T) {
	u := New("http://127.0.0.1:1")
	u.SelectFile(filepath.Join(t.TempDir(), "gone.mp3"))

	_, err := u.Submit(context.Background())
	assert.True(t, errors.Is(err, ErrUploadFailed))
	assert.False(t, u.State().Transcribing)
}

func TestDownloadTranscript(t *testing.T) {
	t.Run("empty transcript writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		path, err := New("http://localhost").DownloadTranscript(dir)
		require.NoError(t, err)
		assert.Empty(t, path)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("writes exact transcript", func(t *testing.T) {
		srv := relayStub(t, http.StatusOK, `{"transcript":"നമസ്കാരം world"}`, nil)
		u := New(srv.URL)
		u.SelectFile(writeAudio(t, []byte("abc")))
		_, err := u.Submit(context.Background())
		require.NoError(t, err)

		dir := t.TempDir()
		path, err := u.DownloadTranscript(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, TranscriptFilename), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "നമസ്കാരം world", string(data))
	})
}

func TestProgressBar_DisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(ProgressConfig{Enabled: false, Writer: &buf}, "voice.mp3")
	pb.Update(50)
	pb.Complete()
	assert.Empty(t, buf.String())
}

func TestProgressBar_Renders(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(ProgressConfig{Enabled: true, Writer: &buf}, "voice.mp3")
	pb.Update(0)
	assert.Nil(t, pb.bar, "no bar before progress is non-zero")

	pb.Update(40)
	pb.Update(100)
	pb.Complete()
	assert.Contains(t, buf.String(), "voice.mp3")
}
