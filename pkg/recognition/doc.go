// Package recognition holds the SDK-independent side of speech recognition:
// classified results, a completion signal for continuous recognition and
// transcript wrapping.
package recognition
