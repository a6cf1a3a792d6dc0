package relay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	apperrors "speech-relay/internal/app/errors"
)

const defaultFilename = "audio.mp3"

// UploadSession is the staged copy of one uploaded audio part. It lives in
// its own directory so concurrent uploads with the same filename never share
// a path.
type UploadSession struct {
	FieldName string
	Filename  string
	Path      string
	Size      int64
	SHA256    string

	dir      string
	released bool
	mu       sync.Mutex
}

// Release removes the staged file and its directory. Safe to call more than once.
func (s *UploadSession) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove staged upload %s: %w", s.dir, err)
	}
	return nil
}

// Stager writes uploads below a process-wide root directory
type Stager struct {
	root     string
	maxBytes int64

	once    sync.Once
	rootErr error
}

// NewStager creates a stager. maxBytes <= 0 disables the size limit.
func NewStager(root string, maxBytes int64) *Stager {
	return &Stager{root: root, maxBytes: maxBytes}
}

// Root returns the staging root directory
func (s *Stager) Root() string {
	return s.root
}

func (s *Stager) ensureRoot() error {
	s.once.Do(func() {
		s.rootErr = os.MkdirAll(s.root, 0o755)
	})
	return s.rootErr
}

// Stage copies r to {root}/{unique}/{basename(filename)} while hashing it.
// On any error nothing is left behind.
func (s *Stager) Stage(fieldName, filename string, r io.Reader) (*UploadSession, error) {
	if err := s.ensureRoot(); err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("create temp root %s: %w", s.root, err), apperrors.ErrStagingFailed)
	}

	dir, err := os.MkdirTemp(s.root, "upload-")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStagingFailed)
	}

	session := &UploadSession{
		FieldName: fieldName,
		Filename:  safeFilename(filename),
		dir:       dir,
	}
	session.Path = filepath.Join(dir, session.Filename)

	if err := s.write(session, r); err != nil {
		session.Release()
		return nil, err
	}
	return session, nil
}

func (s *Stager) write(session *UploadSession, r io.Reader) error {
	f, err := os.OpenFile(session.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrStagingFailed)
	}
	defer f.Close()

	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, hash), r)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrStagingFailed)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return apperrors.Wrapf(apperrors.ErrUploadTooLarge, "upload exceeds %d bytes", s.maxBytes)
	}
	if err := f.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrStagingFailed)
	}

	session.Size = n
	session.SHA256 = hex.EncodeToString(hash.Sum(nil))
	return nil
}

func safeFilename(name string) string {
	base := filepath.Base(name)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return defaultFilename
	}
	return base
}
