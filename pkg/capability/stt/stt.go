// Package stt defines the Transcriber interface for speech-to-text backends.
//
// A Transcriber wraps a batch recognition service (e.g. Google Cloud
// Speech-to-Text) and converts a complete recorded utterance into a text
// transcript in a single call. Streaming recognition is out of scope: learner
// submissions arrive as finished audio files, never as live streams.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Transcript is the result of transcribing one complete utterance.
type Transcript struct {
	// Text is the recognized speech content.
	Text string

	// Language is the BCP-47 tag of the language the recognizer settled on
	// (e.g. "ja-JP"). May be empty when the backend does not report it.
	Language string

	// Confidence is the recognizer's overall confidence (0.0–1.0). Zero when
	// the backend does not report confidence.
	Confidence float64
}

// Transcriber is the abstraction over any batch speech-to-text backend.
//
// Transcribe converts audio into a [Transcript]. filename is the original
// upload name; implementations may use its extension to pick the decoder.
//
// An audio payload in which no speech can be recognized is a failure, not an
// empty result: implementations must return a [capability.ExecutionError] so
// the pipeline's hard-stage handling applies. A client that was never
// configured returns a [capability.UnavailableError] on every call.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (Transcript, error)
}
