// Package mock provides an Evaluator double for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
)

// Evaluator is a configurable test double that records its calls.
type Evaluator struct {
	mu    sync.Mutex
	calls []evaluate.Input

	Scores evaluate.ScoreSet
	Err    error
}

var _ evaluate.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Evaluate(_ context.Context, in evaluate.Input) (evaluate.ScoreSet, error) {
	e.mu.Lock()
	e.calls = append(e.calls, in)
	e.mu.Unlock()
	if e.Err != nil {
		return evaluate.ScoreSet{}, e.Err
	}
	return e.Scores, nil
}

// Calls returns a copy of all recorded inputs.
func (e *Evaluator) Calls() []evaluate.Input {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]evaluate.Input, len(e.calls))
	copy(out, e.calls)
	return out
}
