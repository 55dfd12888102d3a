// Package wav decodes and encodes the WAV files exchanged with the speech
// service.
//
// Input is sniffed with mimetype before decoding, so a file with a .wav
// extension but some other container is rejected with ErrNotWAV. Only
// integer PCM is supported. Callers that talk to the speaker verification
// API check the decoded clip with Require(16000, 1, 16).
package wav
