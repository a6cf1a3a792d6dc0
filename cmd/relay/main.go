// @title Speech Relay API
// @version 1.0
// @description Uploads an audio file to cloud storage and transcribes it with a remote speech service.
// @BasePath /api
package main

import (
	"speech-relay/cmd/relay/cmd"
)

func main() {
	cmd.Execute()
}
