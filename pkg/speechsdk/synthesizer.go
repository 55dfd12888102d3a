package speechsdk

import (
	"context"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
)

// Synthesize speaks text into sink and waits for synthesis to complete.
func (c *Config) Synthesize(ctx context.Context, text string, sink Sink) error {
	conf, err := c.speechConfig()
	if err != nil {
		return err
	}
	defer conf.Close()

	if c.Language != "" {
		if err := conf.SetSpeechSynthesisLanguage(c.Language); err != nil {
			return fmt.Errorf("failed to set synthesis language: %w", err)
		}
	}
	if c.Voice != "" {
		if err := conf.SetSpeechSynthesisVoiceName(c.Voice); err != nil {
			return fmt.Errorf("failed to set synthesis voice: %w", err)
		}
	}

	audioConfig, err := sink.audioConfig()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", sink, err)
	}
	defer audioConfig.Close()

	synthesizer, err := speech.NewSpeechSynthesizerFromConfig(conf, audioConfig)
	if err != nil {
		return fmt.Errorf("failed to create speech synthesizer: %w", err)
	}
	defer synthesizer.Close()

	c.logger().Debug("speechsdk: synthesize", "sink", sink, "chars", len(text), "voice", c.Voice)

	var outcome speech.SpeechSynthesisOutcome
	select {
	case outcome = <-synthesizer.SpeakTextAsync(text):
	case <-ctx.Done():
		return ctx.Err()
	}
	defer outcome.Close()

	if outcome.Error != nil {
		return fmt.Errorf("synthesis failed: %w", outcome.Error)
	}
	if outcome.Result.Reason != common.SynthesizingAudioCompleted {
		details, err := speech.NewCancellationDetailsFromSpeechSynthesisResult(outcome.Result)
		if err != nil {
			return fmt.Errorf("synthesis failed: reason=%s", outcome.Result.Reason.String())
		}
		return fmt.Errorf("synthesis canceled: %s: %s", cancellationReason(details.Reason), details.ErrorDetails)
	}
	return nil
}
