// Package resampler converts 16-bit PCM between sample rates and channel
// layouts.
//
// It is used to turn ordinary recordings (44.1 kHz stereo, 48 kHz mono, ...)
// into the 16 kHz mono samples the speaker verification API accepts. Rate
// conversion uses github.com/tphakala/go-audio-resampling, so no cgo is
// involved.
//
// Example usage:
//
//	src := resampler.Format{SampleRate: 44100, Channels: 2}
//	r, err := resampler.New(audioReader, src, resampler.Mono16K)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	io.Copy(output, r)
package resampler
