package recognition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Reason classifies the outcome of a recognition.
type Reason int

const (
	// Recognized means speech was transcribed.
	Recognized Reason = iota + 1
	// NoMatch means audio was received but no speech was recognized.
	NoMatch
	// Canceled means recognition stopped early, by end of stream or error.
	Canceled
)

func (r Reason) String() string {
	switch r {
	case Recognized:
		return "Recognized"
	case NoMatch:
		return "NoMatch"
	case Canceled:
		return "Canceled"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CancellationReason values reported by the SDK.
const (
	CancellationError       = "Error"
	CancellationEndOfStream = "EndOfStream"
)

// NoMatch reasons.
const (
	NoMatchNotRecognized         = "NotRecognized"
	NoMatchInitialSilenceTimeout = "InitialSilenceTimeout"
	NoMatchInitialBabbleTimeout  = "InitialBabbleTimeout"
)

// NoMatchReason extracts the no-match reason from the service's JSON
// result. It returns "" when payload carries none.
func NoMatchReason(payload string) string {
	var resp struct {
		RecognitionStatus string `json:"RecognitionStatus"`
	}
	if payload == "" || json.Unmarshal([]byte(payload), &resp) != nil {
		return ""
	}
	switch resp.RecognitionStatus {
	case "NoMatch":
		return NoMatchNotRecognized
	case "InitialSilenceTimeout":
		return NoMatchInitialSilenceTimeout
	case "BabbleTimeout", "InitialBabbleTimeout":
		return NoMatchInitialBabbleTimeout
	}
	return ""
}

// ErrCanceled is wrapped by Result.Err for cancellations caused by an error.
var ErrCanceled = errors.New("speech recognition canceled")

// Result is one recognition outcome.
type Result struct {
	Reason Reason `json:"reason" yaml:"reason"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`

	// NoMatchDetails explains a NoMatch outcome.
	NoMatchDetails string `json:"noMatchDetails,omitempty" yaml:"no_match_details,omitempty"`

	// CancellationReason and ErrorDetails are set for Canceled outcomes.
	CancellationReason string `json:"cancellationReason,omitempty" yaml:"cancellation_reason,omitempty"`
	ErrorDetails       string `json:"errorDetails,omitempty" yaml:"error_details,omitempty"`
}

// Err returns a non-nil error for a cancellation caused by an error, such as
// a rejected subscription key.
func (r *Result) Err() error {
	if r.Reason != Canceled || r.CancellationReason != CancellationError {
		return nil
	}
	if r.ErrorDetails == "" {
		return ErrCanceled
	}
	return fmt.Errorf("%w: %s", ErrCanceled, r.ErrorDetails)
}

// Render formats the result for the terminal.
func (r *Result) Render() string {
	switch r.Reason {
	case Recognized:
		return "Recognized: " + r.Text
	case NoMatch:
		if r.NoMatchDetails == "" {
			return "No speech could be recognized"
		}
		return "No speech could be recognized: " + r.NoMatchDetails
	case Canceled:
		var b strings.Builder
		b.WriteString("Speech Recognition canceled: " + r.CancellationReason)
		if r.CancellationReason == CancellationError {
			b.WriteString("\nError details: " + r.ErrorDetails)
		}
		return b.String()
	}
	return r.Reason.String()
}

// String implements fmt.Stringer.
func (r *Result) String() string {
	return r.Render()
}
