package pcm

import (
	"fmt"
	"time"
)

// Format is a 16-bit signed little-endian mono PCM format.
type Format int

const (
	L16Mono16K Format = iota
	L16Mono24K
	L16Mono48K
)

var sampleRates = [...]int{
	L16Mono16K: 16000,
	L16Mono24K: 24000,
	L16Mono48K: 48000,
}

const (
	channels = 1
	depth    = 16

	frameSize = channels * depth / 8
)

// Lookup returns the Format matching the given parameters.
func Lookup(sampleRate, ch, bits int) (Format, bool) {
	if ch != channels || bits != depth {
		return 0, false
	}
	for f, rate := range sampleRates {
		if rate == sampleRate {
			return Format(f), true
		}
	}
	return 0, false
}

// SampleRate returns the sample rate in Hz. It panics for an unknown format.
func (f Format) SampleRate() int {
	if f < 0 || int(f) >= len(sampleRates) {
		panic(fmt.Sprintf("pcm: invalid format %d", int(f)))
	}
	return sampleRates[f]
}

// Channels is always 1.
func (f Format) Channels() int { return channels }

// Depth is always 16.
func (f Format) Depth() int { return depth }

// Samples returns the number of samples in n bytes.
func (f Format) Samples(n int64) int64 {
	return n / frameSize
}

// BytesInDuration returns the number of bytes covering d.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate())*d/time.Second) * frameSize
}

// Duration returns the playing time of n bytes.
func (f Format) Duration(n int64) time.Duration {
	return time.Duration(f.Samples(n)) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * frameSize
}

// ContentType returns the HTTP content type the speech service expects for
// raw PCM uploads in this format.
func (f Format) ContentType() string {
	return fmt.Sprintf("audio/wav; codecs=audio/pcm; samplerate=%d", f.SampleRate())
}

func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate(), channels)
}
