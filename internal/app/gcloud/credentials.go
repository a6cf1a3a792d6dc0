// Package gcloud turns the configured service-account secrets into the
// credential object shared by every Google client.
package gcloud

import (
	"fmt"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/api/option"

	"speech-relay/internal/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewCredentials builds credentials from GOOGLE_PRIVATE_KEY and GOOGLE_CLIENT_EMAIL
func NewCredentials(cfg config.GoogleConfig) (*auth.Credentials, error) {
	data, err := cfg.CredentialsJSON()
	if err != nil {
		return nil, err
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: data,
		Scopes:          []string{cloudPlatformScope},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build google credentials: %w", err)
	}
	return creds, nil
}

// ClientOptions returns the options passed to generated cloud clients
func ClientOptions(creds *auth.Credentials) []option.ClientOption {
	return []option.ClientOption{option.WithAuthCredentials(creds)}
}
