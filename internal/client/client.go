// Package client uploads an audio file to the relay and keeps the
// transcript for download.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// TranscriptFilename is the name of the downloaded transcript
const TranscriptFilename = "transcription.txt"

var (
	// ErrNoFileSelected is returned by Submit before any file was chosen
	ErrNoFileSelected = errors.New("no file selected")
	// ErrBusy is returned by Submit while a previous submission is running
	ErrBusy = errors.New("transcription already in progress")
	// ErrUploadFailed means the request never produced a response
	ErrUploadFailed = errors.New("an error occurred while uploading the audio file")
	// ErrTranscriptionFailed means the server answered with a non-2xx status
	ErrTranscriptionFailed = errors.New("an error occurred while transcribing the audio")
)

// State is a snapshot of the uploader
type State struct {
	File         string
	Transcript   string
	Transcribing bool
	Progress     int
}

// ProgressFunc receives the percentage of the file sent so far
type ProgressFunc func(percent int)

// Option configures an Uploader
type Option func(*Uploader)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

// WithProgress registers a progress observer
func WithProgress(fn ProgressFunc) Option {
	return func(u *Uploader) { u.onProgress = fn }
}

// WithLogger sets the logger used for failure detail
func WithLogger(logger *zap.Logger) Option {
	return func(u *Uploader) { u.logger = logger }
}

// WithFieldName overrides the multipart field name
func WithFieldName(name string) Option {
	return func(u *Uploader) { u.fieldName = name }
}

// Uploader submits one file at a time to POST {server}/api/upload
type Uploader struct {
	endpoint   string
	fieldName  string
	httpClient *http.Client
	onProgress ProgressFunc
	logger     *zap.Logger

	mu    sync.Mutex
	state State
}

// New creates an uploader for the relay at serverURL
func New(serverURL string, opts ...Option) *Uploader {
	u := &Uploader{
		endpoint:   strings.TrimRight(serverURL, "/") + "/api/upload",
		fieldName:  "audio",
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// SelectFile records the file to upload. The file is not inspected.
func (u *Uploader) SelectFile(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.File = path
}

// State returns a snapshot of the current state
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Submit uploads the selected file and stores the returned transcript.
// The transcript is left untouched on failure.
func (u *Uploader) Submit(ctx context.Context) (string, error) {
	u.mu.Lock()
	path := u.state.File
	if path == "" {
		u.mu.Unlock()
		return "", ErrNoFileSelected
	}
	if u.state.Transcribing {
		u.mu.Unlock()
		return "", ErrBusy
	}
	u.state.Transcribing = true
	u.state.Progress = 0
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.state.Transcribing = false
		u.mu.Unlock()
	}()

	transcript, err := u.post(ctx, path)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	u.state.Transcript = transcript
	u.mu.Unlock()
	return transcript, nil
}

func (u *Uploader) post(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		u.logger.Error("Error uploading file", zap.String("file", path), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	body := &countingReader{r: f, total: info.Size(), report: u.setProgress}

	go func() {
		part, err := mw.CreateFormFile(u.fieldName, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		u.logger.Error("Error uploading file", zap.String("endpoint", u.endpoint), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorMessage(resp.Body)
		u.logger.Error("Failed to get transcription",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return "", fmt.Errorf("%w: %s %s", ErrTranscriptionFailed, resp.Status, detail)
	}

	var out struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTranscriptionFailed, err)
	}
	u.setProgress(100)
	return out.Transcript, nil
}

func (u *Uploader) setProgress(percent int) {
	u.mu.Lock()
	if percent <= u.state.Progress {
		u.mu.Unlock()
		return
	}
	u.state.Progress = percent
	u.mu.Unlock()

	if u.onProgress != nil {
		u.onProgress(percent)
	}
}

// DownloadTranscript writes the transcript to dir/transcription.txt and
// returns the path. Nothing is written when there is no transcript.
func (u *Uploader) DownloadTranscript(dir string) (string, error) {
	transcript := u.State().Transcript
	if transcript == "" {
		return "", nil
	}

	path := filepath.Join(dir, TranscriptFilename)
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// countingReader reports the share of the file read so far
type countingReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(percent int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.total > 0 && n > 0 {
		c.report(int(c.read * 100 / c.total))
	}
	return n, err
}
