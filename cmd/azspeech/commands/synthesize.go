package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/speechsdk"
)

// SynthesizeRequest is the request file format of synthesize.
type SynthesizeRequest struct {
	Text     string `json:"text" yaml:"text"`
	Voice    string `json:"voice,omitempty" yaml:"voice,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty"`
}

var (
	synthVoice   string
	synthLang    string
	synthRequest string
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize [text...]",
	Short: "Synthesize speech from text",
	Long: `Synthesize speech from text.

The text comes from the arguments, from stdin, or from a request file.
Audio is played on the default speaker, or written to a WAV file with -o.

Example request file (speech.yaml):
  text: Hello, this is a test message.
  voice: en-US-JennyNeural
  language: en-US
  output: hello.wav

Examples:
  azspeech synthesize "Good morning"
  echo "Good morning" | azspeech synthesize --voice en-GB-RyanNeural -o morning.wav
  azspeech synthesize --request speech.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req SynthesizeRequest
		if synthRequest != "" {
			if err := loadRequest(synthRequest, &req); err != nil {
				return err
			}
		}
		if req.Text == "" {
			text, err := readText(args, os.Stdin)
			if err != nil {
				return err
			}
			req.Text = text
		}
		if req.Text == "" {
			return fmt.Errorf("no text to synthesize")
		}
		if synthVoice != "" {
			req.Voice = synthVoice
		}
		if synthLang != "" {
			req.Language = synthLang
		}
		if out := getOutputFile(); out != "" {
			req.Output = out
		}

		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}
		conf := createSpeechConfig(creds, ctx, req.Language)
		if req.Voice != "" {
			conf.Voice = req.Voice
		}

		sink := speechsdk.Speaker()
		if req.Output != "" {
			sink = speechsdk.WavFile(req.Output)
		}

		printVerbose("Text length: %d characters", len(req.Text))
		printVerbose("Voice: %s", conf.Voice)

		reqCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if err := conf.Synthesize(reqCtx, req.Text, sink); err != nil {
			return err
		}
		if req.Output != "" {
			printSuccess("Audio saved to %s", req.Output)
		}
		return nil
	},
}

func init() {
	synthesizeCmd.Flags().StringVar(&synthVoice, "voice", "", "synthesis voice name")
	synthesizeCmd.Flags().StringVar(&synthLang, "lang", "", "synthesis language (e.g. en-US)")
	synthesizeCmd.Flags().StringVar(&synthRequest, "request", "", "request file (YAML or JSON)")
}
