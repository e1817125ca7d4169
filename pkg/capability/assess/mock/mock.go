// Package mock provides an Assessor double for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
)

// AssessCall records a single Assess invocation.
type AssessCall struct {
	Audio         []byte
	Filename      string
	ReferenceText string
}

// Assessor is a configurable test double that records its calls.
type Assessor struct {
	mu    sync.Mutex
	calls []AssessCall

	Scores assess.ScoreSet
	Err    error
}

var _ assess.Assessor = (*Assessor)(nil)

func (a *Assessor) Assess(_ context.Context, audio []byte, filename, referenceText string) (assess.ScoreSet, error) {
	a.mu.Lock()
	a.calls = append(a.calls, AssessCall{Audio: audio, Filename: filename, ReferenceText: referenceText})
	a.mu.Unlock()
	if a.Err != nil {
		return assess.ScoreSet{}, a.Err
	}
	return a.Scores, nil
}

// Calls returns a copy of all recorded invocations.
func (a *Assessor) Calls() []AssessCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AssessCall, len(a.calls))
	copy(out, a.calls)
	return out
}
