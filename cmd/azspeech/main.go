// Package main provides the azspeech CLI tool.
//
// Usage:
//
//	azspeech [flags] <command> [args]
//
// Commands:
//
//	transcribe  - Speech to text from a WAV file or the microphone
//	synthesize  - Text to speech to the speaker or a WAV file
//	translate   - Speech translation
//	verify      - Speaker verification against three enrollment samples
//	phrases     - List the verification passphrases
//	audio       - Inspect and convert WAV samples
//	config      - Configuration management
//	demo        - Interactive walkthrough of the services
//
// Credentials:
//
//	The subscription key and region come from --key/--region,
//	AZURE_SPEECH_KEY/AZURE_SPEECH_REGION (or .env), ./private.txt,
//	or a context stored in ~/.mlhub/azspeech/config.yaml.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gjwgit/azspeech2txt/cmd/azspeech/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
