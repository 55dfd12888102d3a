// Package pcm describes the raw PCM formats exchanged with the speech service.
//
// Every format is 16-bit signed little-endian mono. The speaker verification
// API only accepts L16Mono16K; the other rates appear in synthesized output
// and in recordings that need resampling first.
package pcm
