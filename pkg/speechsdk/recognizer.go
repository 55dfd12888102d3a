package speechsdk

import (
	"context"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"

	"github.com/gjwgit/azspeech2txt/pkg/recognition"
)

// recognizer builds a SpeechRecognizer for src. The returned release func
// frees every native handle.
func (c *Config) recognizer(src Source) (*speech.SpeechRecognizer, func(), error) {
	conf, err := c.speechConfig()
	if err != nil {
		return nil, nil, err
	}
	if c.Language != "" {
		if err := conf.SetSpeechRecognitionLanguage(c.Language); err != nil {
			conf.Close()
			return nil, nil, fmt.Errorf("failed to set recognition language: %w", err)
		}
	}

	audioConfig, err := src.audioConfig()
	if err != nil {
		conf.Close()
		return nil, nil, fmt.Errorf("failed to open %s: %w", src, err)
	}

	rec, err := speech.NewSpeechRecognizerFromConfig(conf, audioConfig)
	if err != nil {
		audioConfig.Close()
		conf.Close()
		return nil, nil, fmt.Errorf("failed to create speech recognizer: %w", err)
	}

	release := func() {
		rec.Close()
		audioConfig.Close()
		conf.Close()
	}
	return rec, release, nil
}

// RecognizeOnce recognizes the first utterance from src.
func (c *Config) RecognizeOnce(ctx context.Context, src Source) (*recognition.Result, error) {
	rec, release, err := c.recognizer(src)
	if err != nil {
		return nil, err
	}
	defer release()

	c.logger().Debug("speechsdk: recognize once", "source", src, "language", c.Language)

	select {
	case outcome := <-rec.RecognizeOnceAsync():
		defer outcome.Close()
		if outcome.Error != nil {
			return nil, fmt.Errorf("recognition failed: %w", outcome.Error)
		}
		return resultFrom(outcome.Result), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Transcribe runs continuous recognition over src, calling onText for every
// recognized utterance. It returns when the session stops, when the service
// cancels it, or when ctx is done.
func (c *Config) Transcribe(ctx context.Context, src Source, onText func(string)) error {
	rec, release, err := c.recognizer(src)
	if err != nil {
		return err
	}
	defer release()

	log := c.logger().With("source", src.String())
	session := recognition.NewSession()

	rec.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		if e.Result.Reason == common.RecognizedSpeech && e.Result.Text != "" {
			onText(e.Result.Text)
		}
	})
	rec.SessionStopped(func(e speech.SessionEventArgs) {
		log.Debug("speechsdk: session stopped")
		session.Finish(nil)
	})
	rec.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		res := recognition.Result{
			Reason:             recognition.Canceled,
			CancellationReason: cancellationReason(e.Reason),
			ErrorDetails:       e.ErrorDetails,
		}
		log.Debug("speechsdk: session canceled", "reason", res.CancellationReason)
		session.Finish(res.Err())
	})

	if err := <-rec.StartContinuousRecognitionAsync(); err != nil {
		return fmt.Errorf("failed to start recognition: %w", err)
	}

	werr := session.Wait(ctx)
	if err := <-rec.StopContinuousRecognitionAsync(); err != nil {
		log.Warn("speechsdk: stop recognition", "error", err)
	}
	return werr
}

func resultFrom(r *speech.SpeechRecognitionResult) *recognition.Result {
	switch r.Reason {
	case common.RecognizedSpeech:
		return &recognition.Result{Reason: recognition.Recognized, Text: r.Text}
	case common.NoMatch:
		res := &recognition.Result{Reason: recognition.NoMatch}
		if r.Properties != nil {
			res.NoMatchDetails = recognition.NoMatchReason(r.Properties.GetProperty(common.SpeechServiceResponseJSONResult, ""))
		}
		return res
	case common.Canceled:
		res := &recognition.Result{Reason: recognition.Canceled}
		if details, err := speech.NewCancellationDetailsFromSpeechRecognitionResult(r); err == nil {
			res.CancellationReason = cancellationReason(details.Reason)
			res.ErrorDetails = details.ErrorDetails
		}
		return res
	}
	return &recognition.Result{Reason: recognition.Canceled, CancellationReason: r.Reason.String()}
}

func cancellationReason(r common.CancellationReason) string {
	switch r {
	case common.Error:
		return recognition.CancellationError
	case common.EndOfStream:
		return recognition.CancellationEndOfStream
	}
	return fmt.Sprintf("CancellationReason(%d)", int(r))
}
