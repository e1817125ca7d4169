// Package mock provides a Corrector double for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/correct"
)

// CorrectCall records a single Correct invocation.
type CorrectCall struct {
	Raw             string
	ScenarioContext string
}

// Corrector is a configurable test double that records its calls.
type Corrector struct {
	mu    sync.Mutex
	calls []CorrectCall

	// Corrected is returned by Correct when Err is nil. If empty, the raw
	// input is echoed back.
	Corrected string
	Err       error
}

var _ correct.Corrector = (*Corrector)(nil)

func (c *Corrector) Correct(_ context.Context, raw, scenarioContext string) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, CorrectCall{Raw: raw, ScenarioContext: scenarioContext})
	c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	if c.Corrected == "" {
		return raw, nil
	}
	return c.Corrected, nil
}

// Calls returns a copy of all recorded invocations.
func (c *Corrector) Calls() []CorrectCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CorrectCall, len(c.calls))
	copy(out, c.calls)
	return out
}
