package speechsdk

import (
	"fmt"
	"log/slog"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
)

// Config holds the settings shared by recognizers and synthesizers.
type Config struct {
	Key    string
	Region string

	// Language is the recognition or synthesis language (e.g., "en-US").
	// Empty keeps the service default.
	Language string

	// Voice is the synthesis voice name (e.g., "en-US-JennyNeural").
	Voice string

	Logger *slog.Logger
}

// NewConfig returns a Config for the Speech resource identified by key and
// region.
func NewConfig(key, region string) *Config {
	return &Config{Key: key, Region: region, Logger: slog.Default()}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Config) speechConfig() (*speech.SpeechConfig, error) {
	if c.Key == "" || c.Region == "" {
		return nil, fmt.Errorf("speechsdk: subscription key and region are required")
	}
	conf, err := speech.NewSpeechConfigFromSubscription(c.Key, c.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech config: %w", err)
	}
	return conf, nil
}

// Source is where recognition audio comes from.
type Source struct {
	path string
}

// Microphone returns the default microphone source.
func Microphone() Source {
	return Source{}
}

// File returns a WAV file source.
func File(path string) Source {
	return Source{path: path}
}

// String names the source for logs.
func (s Source) String() string {
	if s.path == "" {
		return "microphone"
	}
	return s.path
}

func (s Source) audioConfig() (*audio.AudioConfig, error) {
	if s.path == "" {
		return audio.NewAudioConfigFromDefaultMicrophoneInput()
	}
	return audio.NewAudioConfigFromWavFileInput(s.path)
}

// Sink is where synthesized audio goes.
type Sink struct {
	path string
}

// Speaker returns the default speaker sink.
func Speaker() Sink {
	return Sink{}
}

// WavFile returns a sink writing a WAV file at path.
func WavFile(path string) Sink {
	return Sink{path: path}
}

// String names the sink for logs.
func (s Sink) String() string {
	if s.path == "" {
		return "speaker"
	}
	return s.path
}

func (s Sink) audioConfig() (*audio.AudioConfig, error) {
	if s.path == "" {
		return audio.NewAudioConfigFromDefaultSpeakerOutput()
	}
	return audio.NewAudioConfigFromWavFileOutput(s.path)
}
