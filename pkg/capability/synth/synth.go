// Package synth defines the speech synthesis capability.
package synth

import "context"

// Synthesizer turns reply text into an audio file the client can fetch.
type Synthesizer interface {
	// Synthesize renders text as speech, stores the audio under a name
	// derived from interactionID, and returns the URL path the file is
	// served at.
	Synthesize(ctx context.Context, text, interactionID string) (string, error)
}
