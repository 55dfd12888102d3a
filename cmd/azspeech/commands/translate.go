package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/azspeech"
	"github.com/gjwgit/azspeech2txt/pkg/cli"
	"github.com/gjwgit/azspeech2txt/pkg/recognition"
	"github.com/gjwgit/azspeech2txt/pkg/speechsdk"
)

// TranslateRequest is the request file format of translate.
type TranslateRequest struct {
	Input string   `json:"input,omitempty" yaml:"input,omitempty"`
	From  string   `json:"from,omitempty" yaml:"from,omitempty"`
	To    []string `json:"to,omitempty" yaml:"to,omitempty"`
}

// SpeechTranslation is the structured output of translate.
type SpeechTranslation struct {
	Recognized   string                 `json:"recognized" yaml:"recognized"`
	From         string                 `json:"from" yaml:"from"`
	Translations []azspeech.Translation `json:"translations" yaml:"translations"`
}

var (
	translateInput   string
	translateFrom    string
	translateTo      string
	translateRequest string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate speech into other languages",
	Long: `Recognize one utterance and translate it.

Speech comes from a WAV file with -i, or from the default microphone.
The recognized text is translated into every language given with --to.

Example request file (translate.yaml):
  input: hello.wav
  from: en-US
  to: [fr, de]

Examples:
  azspeech translate --from en-US --to fr
  azspeech translate -i hello.wav --to fr,de --json
  azspeech translate --request translate.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := TranslateRequest{Input: translateInput, From: translateFrom, To: splitList(translateTo)}
		if translateRequest != "" {
			if err := loadRequest(translateRequest, &req); err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				req.Input = translateInput
			}
			if cmd.Flags().Changed("from") || req.From == "" {
				req.From = translateFrom
			}
			if cmd.Flags().Changed("to") || len(req.To) == 0 {
				req.To = splitList(translateTo)
			}
		}
		if len(req.To) == 0 {
			return fmt.Errorf("at least one target language is required, use --to")
		}
		if req.Input != "" && !fileExists(req.Input) {
			return fmt.Errorf("file not found: %s", req.Input)
		}

		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}

		source := speechsdk.Microphone()
		if req.Input != "" {
			source = speechsdk.File(req.Input)
		}
		st, err := translateSpeech(cmd.Context(), creds, ctx, source, req.From, req.To)
		if err != nil || st == nil {
			return err
		}

		if isStructuredOutput() {
			return outputResult(st)
		}
		st.print(os.Stdout)
		return nil
	},
}

// translateSpeech recognizes one utterance from source and translates it.
// When nothing is recognized the outcome is printed and both returns are nil,
// unless the recognition was canceled by an error.
func translateSpeech(ctx context.Context, creds cli.Credentials, cctx *cli.Context, source speechsdk.Source, from string, to []string) (*SpeechTranslation, error) {
	res, err := createSpeechConfig(creds, cctx, from).RecognizeOnce(ctx, source)
	if err != nil {
		return nil, err
	}
	if res.Reason != recognition.Recognized {
		fmt.Println(res.Render())
		return nil, reportRecognitionError(res.Err())
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	translated, err := createClient(creds, cctx).Translator.Translate(reqCtx, res.Text, baseLanguage(from), to...)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	return &SpeechTranslation{
		Recognized:   res.Text,
		From:         from,
		Translations: translated.Translations,
	}, nil
}

func (st *SpeechTranslation) print(w io.Writer) {
	fmt.Fprintf(w, "Recognized: %s\n", st.Recognized)
	for _, t := range st.Translations {
		fmt.Fprintf(w, "Translated into '%s': %s\n", t.To, t.Text)
	}
}

// baseLanguage maps a speech locale such as "en-US" to the language code the
// Translator expects. Script subtags such as "zh-Hans" are kept.
func baseLanguage(locale string) string {
	lang, region, ok := strings.Cut(locale, "-")
	if !ok || len(region) > 2 {
		return locale
	}
	return lang
}

func init() {
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "WAV file to translate (default: microphone)")
	translateCmd.Flags().StringVar(&translateFrom, "from", "en-US", "spoken language")
	translateCmd.Flags().StringVar(&translateTo, "to", "fr", "target languages, comma separated")
	translateCmd.Flags().StringVar(&translateRequest, "request", "", "request file (YAML or JSON)")
}
