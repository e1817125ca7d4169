// Package mock provides a test double for the stt package.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
)

// TranscribeCall records a single invocation of Transcriber.Transcribe.
type TranscribeCall struct {
	Audio    []byte
	Filename string
}

// Transcriber is a mock implementation of stt.Transcriber.
type Transcriber struct {
	mu sync.Mutex

	// Transcript is returned from every Transcribe call when Err is nil.
	Transcript stt.Transcript

	// Err, if non-nil, is returned from every Transcribe call.
	Err error

	// Calls records every invocation.
	Calls []TranscribeCall
}

var _ stt.Transcriber = (*Transcriber)(nil)

func (m *Transcriber) Transcribe(_ context.Context, audio []byte, filename string) (stt.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, TranscribeCall{Audio: audio, Filename: filename})
	if m.Err != nil {
		return stt.Transcript{}, m.Err
	}
	return m.Transcript, nil
}
