// Package relay turns one multipart upload into one transcript: the audio
// part is staged to local disk, uploaded to the blob store, and the speech
// service is asked to transcribe the stored object by reference.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"go.uber.org/zap"

	"speech-relay/internal/app/cache"
	apperrors "speech-relay/internal/app/errors"
	"speech-relay/internal/app/metrics"
	"speech-relay/internal/app/speech"
	"speech-relay/internal/app/storage"
)

// Options fixes the per-process behaviour of the pipeline
type Options struct {
	FieldName          string
	KeyPrefix          string
	Recognition        speech.RecognitionConfig
	RecognitionTimeout time.Duration
}

// Transcription is the immutable outcome of one request
type Transcription struct {
	Transcript string `json:"transcript"`
	Filename   string `json:"-"`
	Bytes      int64  `json:"-"`
	BlobKey    string `json:"-"`
	BlobURI    string `json:"-"`
	Provider   string `json:"-"`
	Cached     bool   `json:"-"`
}

// Relay runs the staging → upload → recognition pipeline
type Relay struct {
	opts       Options
	stager     *Stager
	store      storage.BlobStore
	recognizer speech.Recognizer
	cache      cache.TranscriptCache
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// New wires the pipeline. A nil cache disables caching.
func New(
	opts Options,
	stager *Stager,
	store storage.BlobStore,
	recognizer speech.Recognizer,
	transcripts cache.TranscriptCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Relay {
	if transcripts == nil {
		transcripts = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		opts:       opts,
		stager:     stager,
		store:      store,
		recognizer: recognizer,
		cache:      transcripts,
		metrics:    m,
		logger:     logger.Named("relay"),
		now:        time.Now,
	}
}

// Process consumes the multipart stream and returns the transcript.
// Errors match apperrors.ErrNoAudio, ErrUploadTooLarge, ErrStagingFailed,
// ErrBlobUploadFailed or ErrRecognitionFailed.
func (r *Relay) Process(ctx context.Context, mr *multipart.Reader) (*Transcription, error) {
	logger := r.logger.With(zap.String("request_id", RequestIDFromContext(ctx)))

	start := time.Now()
	session, err := r.receive(mr, logger)
	r.metrics.ObserveStage(metrics.StageStaging, time.Since(start).Seconds())
	if err != nil {
		r.fail(metrics.StageStaging, err)
		return nil, err
	}
	if session == nil {
		r.metrics.RecordOutcome(metrics.OutcomeNoAudio)
		return nil, apperrors.ErrNoAudio
	}
	defer r.release(session, logger)

	r.metrics.UploadBytes.Observe(float64(session.Size))
	logger = logger.With(zap.String("filename", session.Filename), zap.Int64("bytes", session.Size))
	logger.Info("Staged audio upload", zap.String("path", session.Path))

	fingerprint := r.fingerprint(session)
	if transcript, ok := r.cached(ctx, fingerprint, logger); ok {
		r.metrics.CacheHits.Inc()
		r.metrics.RecordOutcome(metrics.OutcomeCacheHit)
		return &Transcription{
			Transcript: transcript,
			Filename:   session.Filename,
			Bytes:      session.Size,
			Provider:   r.recognizer.Name(),
			Cached:     true,
		}, nil
	}

	ref, err := r.upload(ctx, session, logger)
	// The staged copy is no longer needed once the upload attempt is over.
	r.release(session, logger)
	if err != nil {
		return nil, err
	}

	result, err := r.recognize(ctx, ref, logger)
	if err != nil {
		return nil, err
	}

	transcript := result.Transcript()
	if err := r.cache.Set(ctx, fingerprint, transcript); err != nil {
		logger.Warn("Failed to cache transcript", zap.Error(err))
	}

	r.metrics.RecordOutcome(metrics.OutcomeSuccess)
	logger.Info("Transcribed audio",
		zap.String("blob_uri", ref.URI),
		zap.Int("segments", len(result.Segments)),
		zap.Int("transcript_length", len(transcript)),
	)

	return &Transcription{
		Transcript: transcript,
		Filename:   session.Filename,
		Bytes:      session.Size,
		BlobKey:    ref.Key,
		BlobURI:    ref.URI,
		Provider:   r.recognizer.Name(),
	}, nil
}

// receive scans the parts. Only the first file part named FieldName is
// staged; every other part is drained and dropped.
func (r *Relay) receive(mr *multipart.Reader, logger *zap.Logger) (*UploadSession, error) {
	var session *UploadSession
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return session, nil
		}
		if err != nil {
			if session != nil {
				session.Release()
			}
			return nil, apperrors.Wrap(fmt.Errorf("read multipart: %w", err), apperrors.ErrStagingFailed)
		}

		if session != nil || part.FormName() != r.opts.FieldName || part.FileName() == "" {
			logger.Debug("Discarding form part", zap.String("field", part.FormName()))
			_, err = io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				if session != nil {
					session.Release()
				}
				return nil, apperrors.Wrap(fmt.Errorf("drain part %q: %w", part.FormName(), err), apperrors.ErrStagingFailed)
			}
			continue
		}

		session, err = r.stager.Stage(part.FormName(), part.FileName(), part)
		part.Close()
		if err != nil {
			return nil, err
		}
	}
}

func (r *Relay) upload(ctx context.Context, session *UploadSession, logger *zap.Logger) (BlobReference, error) {
	key := BlobKey(r.opts.KeyPrefix, session.Filename, r.now())

	start := time.Now()
	obj, err := r.store.Upload(ctx, session.Path, key)
	r.metrics.ObserveStage(metrics.StageUpload, time.Since(start).Seconds())
	if err != nil {
		err = apperrors.Wrap(err, apperrors.ErrBlobUploadFailed)
		r.fail(metrics.StageUpload, err)
		logger.Error("Blob upload failed", zap.String("key", key), zap.Error(err))
		return BlobReference{}, err
	}

	uri := obj.URI
	if uri == "" {
		uri = r.store.URI(key)
	}
	logger.Info("Uploaded audio to blob store", zap.String("bucket", r.store.Bucket()), zap.String("key", key))
	return BlobReference{Key: key, URI: uri}, nil
}

func (r *Relay) recognize(ctx context.Context, ref BlobReference, logger *zap.Logger) (*speech.Result, error) {
	if r.opts.RecognitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RecognitionTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := r.recognizer.Recognize(ctx, &speech.Request{Config: r.opts.Recognition, URI: ref.URI})
	r.metrics.ObserveStage(metrics.StageRecognition, time.Since(start).Seconds())
	if err != nil {
		err = apperrors.Wrap(err, apperrors.ErrRecognitionFailed)
		r.fail(metrics.StageRecognition, err)
		logger.Error("Recognition failed",
			zap.String("provider", r.recognizer.Name()),
			zap.String("blob_uri", ref.URI),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (r *Relay) cached(ctx context.Context, fingerprint string, logger *zap.Logger) (string, bool) {
	transcript, ok, err := r.cache.Get(ctx, fingerprint)
	if err != nil {
		logger.Warn("Transcript cache lookup failed", zap.Error(err))
		return "", false
	}
	if ok {
		logger.Info("Serving cached transcript", zap.String("fingerprint", fingerprint))
	}
	return transcript, ok
}

// fingerprint ties the audio content to the recognition profile that produced
// the transcript.
func (r *Relay) fingerprint(session *UploadSession) string {
	rc := r.opts.Recognition
	return fmt.Sprintf("%s:%s:%s:%d:%s", session.SHA256, r.recognizer.Name(), rc.Encoding, rc.SampleRateHertz, rc.LanguageCode)
}

func (r *Relay) release(session *UploadSession, logger *zap.Logger) {
	if err := session.Release(); err != nil {
		logger.Warn("Failed to release staged upload", zap.Error(err))
	}
}

func (r *Relay) fail(stage string, err error) {
	r.metrics.RecordStageFailure(stage)
	if errors.Is(err, apperrors.ErrUploadTooLarge) {
		r.metrics.RecordOutcome(metrics.OutcomeTooLarge)
		return
	}
	r.metrics.RecordOutcome(metrics.OutcomeFailed)
}
