//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"speech-relay/internal/api/handlers"
	"speech-relay/internal/api/server"
	"speech-relay/internal/app/logging"
	"speech-relay/internal/app/metrics"
	"speech-relay/internal/app/relay"
	"speech-relay/internal/config"
)

var relaySet = wire.NewSet(
	provideCredentials,
	provideBlobStore,
	provideRecognizer,
	provideTranscriptCache,
	provideStager,
	provideRelayOptions,
	relay.New,
)

// InitializeServer builds the HTTP server and every collaborator it needs
func InitializeServer(ctx context.Context, cfg *config.Config) (*server.Server, func(), error) {
	wire.Build(
		logging.ProvideLogger,
		metrics.NewMetrics,
		relaySet,
		wire.Bind(new(handlers.Transcriber), new(*relay.Relay)),
		handlers.NewUploadHandler,
		server.NewServer,
	)
	return nil, nil, nil
}
