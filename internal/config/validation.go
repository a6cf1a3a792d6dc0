package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "speech-relay/internal/app/errors"
)

var validate = validator.New()

// Validate checks struct tags first, then rules spanning several sections.
// Missing Google credentials are fatal when a Google backend is selected.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return apperrors.Wrapf(apperrors.ErrInvalidConfig, "config validation: %s", strings.Join(msgs, "; "))
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig)
	}

	if cfg.NeedsGoogleCredentials() {
		if cfg.Google.PrivateKey == "" {
			return apperrors.Wrapf(apperrors.ErrMissingCredentials, "GOOGLE_PRIVATE_KEY is required for %s/%s", cfg.Storage.Backend, cfg.Speech.Provider)
		}
		if cfg.Google.ClientEmail == "" {
			return apperrors.Wrapf(apperrors.ErrMissingCredentials, "GOOGLE_CLIENT_EMAIL is required for %s/%s", cfg.Storage.Backend, cfg.Speech.Provider)
		}
	}

	if cfg.Speech.Provider == SpeechGemini && cfg.Google.ProjectID == "" {
		return apperrors.RequiredField("GOOGLE_PROJECT_ID")
	}

	if cfg.Storage.Backend == StorageMinio {
		if cfg.Storage.MinioAccessKey == "" || cfg.Storage.MinioSecretKey == "" {
			return apperrors.RequiredField("MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	}

	return nil
}
