package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/audio/wav"
	"github.com/gjwgit/azspeech2txt/pkg/recognition"
	"github.com/gjwgit/azspeech2txt/pkg/speechsdk"
)

const keyHint = "To update your key, run 'azspeech config add-context' or edit private.txt."

var (
	transcribeInput string
	transcribeLang  string
)

// Transcript is the structured output of transcribe.
type Transcript struct {
	Source   string   `json:"source" yaml:"source"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Segments []string `json:"segments" yaml:"segments"`
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe speech to text",
	Long: `Transcribe speech to text.

With -i the whole WAV file is transcribed with continuous recognition and
each recognized utterance is printed as a wrapped paragraph. Without -i one
utterance is recognized from the default microphone.

Examples:
  azspeech transcribe -i meeting.wav
  azspeech transcribe -i meeting.wav -l en-AU --json
  azspeech transcribe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if transcribeInput != "" {
			if !fileExists(transcribeInput) {
				fmt.Fprintf(os.Stderr, "azspeech transcribe: File not found: %s\n", transcribeInput)
				return ErrReported
			}
			if _, err := wav.DecodeFile(transcribeInput); err != nil {
				printVerbose("decode %s: %v", transcribeInput, err)
				fmt.Fprintf(os.Stderr, "azspeech transcribe: File does not seem to be wav audio: %s\n", transcribeInput)
				return ErrReported
			}
		}

		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}
		conf := createSpeechConfig(creds, ctx, transcribeLang)

		if transcribeInput == "" {
			return recognizeMicrophone(cmd, conf)
		}

		transcript := &Transcript{Source: transcribeInput, Language: conf.Language}
		structured := isStructuredOutput()
		err = conf.Transcribe(cmd.Context(), speechsdk.File(transcribeInput), func(text string) {
			if structured {
				transcript.Segments = append(transcript.Segments, text)
				return
			}
			fmt.Println(recognition.Fill(text, recognition.DefaultWidth))
			fmt.Println()
		})
		if err != nil {
			return reportRecognitionError(err)
		}

		if structured {
			return outputResult(transcript)
		}
		return nil
	},
}

func recognizeMicrophone(cmd *cobra.Command, conf *speechsdk.Config) error {
	printVerbose("Listening on the default microphone")
	res, err := conf.RecognizeOnce(cmd.Context(), speechsdk.Microphone())
	if err != nil {
		return err
	}

	if isStructuredOutput() {
		if err := outputResult(res); err != nil {
			return err
		}
		return reportRecognitionError(res.Err())
	}

	if res.Reason == recognition.Recognized {
		fmt.Println(res.Text)
		return nil
	}
	fmt.Println(res.Render())
	return reportRecognitionError(res.Err())
}

// reportRecognitionError prints the key hint for service-side cancellations.
func reportRecognitionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, recognition.ErrCanceled) {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, keyHint)
		return ErrReported
	}
	return err
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeInput, "input", "i", "", "WAV file to transcribe (default: microphone)")
	transcribeCmd.Flags().StringVarP(&transcribeLang, "lang", "l", "", "recognition language (e.g. en-US)")
}
