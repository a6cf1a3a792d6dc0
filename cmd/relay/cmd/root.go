package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"speech-relay/cmd/relay/cmd/serve"
	"speech-relay/cmd/relay/cmd/upload"
	"speech-relay/cmd/relay/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Upload audio to cloud storage and transcribe it",
	Long: `relay accepts one audio file per request, stores it in a blob store and
asks a remote speech service to transcribe the stored object.

- relay serve starts the HTTP API (POST /api/upload)
- relay upload sends a local file to a running server and saves the transcript`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(upload.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
