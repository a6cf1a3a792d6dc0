package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"speech-relay/internal/app"
	"speech-relay/internal/config"
)

var configFile string
var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().StringVarP(&configFile, "config", "c", "",
		"YAML config file; its values override the environment")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"how long in-flight uploads may run after SIGINT/SIGTERM")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload and transcription HTTP API",
	Long: `Start the upload and transcription HTTP API

- Configuration comes from .env files, the environment and an optional --config file
- GOOGLE_PRIVATE_KEY and GOOGLE_CLIENT_EMAIL are required for the Google backends
- POST /api/upload accepts one multipart "audio" file and returns {"transcript": "..."}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}
		defer cleanup()

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		select {
		case <-ctx.Done():
		case err := <-srv.Errors():
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
