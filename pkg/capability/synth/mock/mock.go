// Package mock provides a Synthesizer double for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/synth"
)

// SynthesizeCall records a single Synthesize invocation.
type SynthesizeCall struct {
	Text          string
	InteractionID string
}

// Synthesizer is a configurable test double that records its calls.
type Synthesizer struct {
	mu    sync.Mutex
	calls []SynthesizeCall

	// URL is returned when Err is nil. If empty, a path derived from the
	// interaction id is returned.
	URL string
	Err error
}

var _ synth.Synthesizer = (*Synthesizer)(nil)

func (s *Synthesizer) Synthesize(_ context.Context, text, interactionID string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, SynthesizeCall{Text: text, InteractionID: interactionID})
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.URL == "" {
		return "/uploads/audio/" + interactionID + "_response.mp3", nil
	}
	return s.URL, nil
}

// Calls returns a copy of all recorded invocations.
func (s *Synthesizer) Calls() []SynthesizeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SynthesizeCall, len(s.calls))
	copy(out, s.calls)
	return out
}
