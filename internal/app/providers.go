package app

import (
	"context"

	"cloud.google.com/go/auth"
	"go.uber.org/zap"

	"speech-relay/internal/app/cache"
	apperrors "speech-relay/internal/app/errors"
	"speech-relay/internal/app/gcloud"
	"speech-relay/internal/app/relay"
	"speech-relay/internal/app/speech"
	"speech-relay/internal/app/speech/gemini"
	"speech-relay/internal/app/speech/google"
	"speech-relay/internal/app/storage"
	"speech-relay/internal/app/storage/gcs"
	miniostore "speech-relay/internal/app/storage/minio"
	"speech-relay/internal/config"
)

// provideCredentials builds the shared Google credentials once. It returns nil
// when no configured backend talks to Google Cloud.
func provideCredentials(cfg *config.Config) (*auth.Credentials, error) {
	if !cfg.NeedsGoogleCredentials() {
		return nil, nil
	}
	return gcloud.NewCredentials(cfg.Google)
}

func provideBlobStore(ctx context.Context, cfg *config.Config, creds *auth.Credentials, logger *zap.Logger) (storage.BlobStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageGCS:
		store, err := gcs.New(ctx, cfg.Storage.Bucket, logger, gcloud.ClientOptions(creds)...)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close GCS client", zap.Error(err))
			}
		}, nil
	case config.StorageMinio:
		store, err := miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.Storage.MinioEndpoint,
			AccessKey: cfg.Storage.MinioAccessKey,
			SecretKey: cfg.Storage.MinioSecretKey,
			UseSSL:    cfg.Storage.MinioUseSSL,
			Bucket:    cfg.Storage.Bucket,
			URIScheme: cfg.Storage.URIScheme,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, apperrors.UnknownBackend("storage", cfg.Storage.Backend)
	}
}

func provideRecognizer(ctx context.Context, cfg *config.Config, creds *auth.Credentials, logger *zap.Logger) (speech.Recognizer, func(), error) {
	switch cfg.Speech.Provider {
	case config.SpeechGoogle:
		r, err := google.New(ctx, cfg.Speech.LongRunning, logger, gcloud.ClientOptions(creds)...)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {
			if err := r.Close(); err != nil {
				logger.Warn("Failed to close speech client", zap.Error(err))
			}
		}, nil
	case config.SpeechGemini:
		r, err := gemini.New(ctx, gemini.Config{
			Project:     cfg.Google.ProjectID,
			Location:    cfg.Google.Location,
			Model:       cfg.Speech.GeminiModel,
			Credentials: creds,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	default:
		return nil, nil, apperrors.UnknownBackend("speech", cfg.Speech.Provider)
	}
}

func provideTranscriptCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.TranscriptCache, func(), error) {
	if !cfg.Cache.Enabled {
		return cache.Nop{}, func() {}, nil
	}

	c, client, err := cache.NewRedisCache(ctx, cache.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      cfg.Cache.TTL,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Transcript cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	return c, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}, nil
}

func provideStager(cfg *config.Config) *relay.Stager {
	return relay.NewStager(cfg.Upload.TempDir, cfg.Upload.MaxBytes)
}

func provideRelayOptions(cfg *config.Config) relay.Options {
	return relay.Options{
		FieldName: cfg.Upload.FieldName,
		KeyPrefix: cfg.Storage.Prefix,
		Recognition: speech.RecognitionConfig{
			Encoding:        cfg.Speech.Encoding,
			SampleRateHertz: cfg.Speech.SampleRateHertz,
			LanguageCode:    cfg.Speech.LanguageCode,
		},
		RecognitionTimeout: cfg.Speech.Timeout,
	}
}
