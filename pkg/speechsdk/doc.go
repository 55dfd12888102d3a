// Package speechsdk adapts the native Azure Speech SDK
// (github.com/Microsoft/cognitive-services-speech-sdk-go) to the types of
// package recognition.
//
// The SDK is a cgo binding; building this package requires the Speech SDK
// shared libraries.
package speechsdk
