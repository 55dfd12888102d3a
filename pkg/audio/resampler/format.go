package resampler

import "fmt"

// Format describes a 16-bit signed little-endian PCM stream.
type Format struct {
	// SampleRate is the sample rate in Hz (e.g., 16000, 44100).
	SampleRate int

	// Channels is the number of interleaved channels.
	Channels int
}

// Mono16K is the format the speaker verification API accepts.
var Mono16K = Format{SampleRate: 16000, Channels: 1}

func (f Format) frameSize() int {
	return f.Channels * 2
}

func (f Format) validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("resampler: invalid sample rate %d", f.SampleRate)
	}
	if f.Channels < 1 {
		return fmt.Errorf("resampler: invalid channel count %d", f.Channels)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch", f.SampleRate, f.Channels)
}
