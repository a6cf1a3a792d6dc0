package upload

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"speech-relay/internal/app/logging"
	"speech-relay/internal/client"
)

var serverURL string
var outDir string
var quiet bool
var verbose bool

func init() {
	Cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:3000",
		"base URL of a running relay")
	Cmd.Flags().StringVarP(&outDir, "out", "o", "",
		"directory to save transcription.txt into; the transcript is only printed when empty")
	Cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw a progress bar")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "log failure detail")
}

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload an audio file to a relay and print its transcript",
	Long: `Upload an audio file to a relay and print its transcript

- The file is sent as the "audio" field of a multipart form
- Upload progress is shown while the body is streamed
- With --out the transcript is also saved as transcription.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zap.NewNop()
		if verbose {
			logger = logging.MustNewLogger(true)
			defer logger.Sync()
		}

		var file string
		if len(args) == 1 {
			file = args[0]
		}

		bar := client.NewProgressBar(client.ProgressConfig{
			Enabled: !quiet,
			Writer:  cmd.ErrOrStderr(),
		}, filepath.Base(file))

		uploader := client.New(serverURL,
			client.WithProgress(bar.Update),
			client.WithLogger(logger),
		)
		if file != "" {
			uploader.SelectFile(file)
		}

		transcript, err := uploader.Submit(cmd.Context())
		bar.Complete()
		if err != nil {
			if errors.Is(err, client.ErrNoFileSelected) {
				return fmt.Errorf("please select an audio file")
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), transcript)

		if outDir != "" {
			path, err := uploader.DownloadTranscript(outDir)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
			}
		}
		return nil
	},
}
