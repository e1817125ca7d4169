// Package mock provides a reply Generator double for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/capability/reply"
)

// Generator is a configurable test double that records its calls.
type Generator struct {
	mu    sync.Mutex
	calls []reply.Input

	Reply string
	Err   error
}

var _ reply.Generator = (*Generator)(nil)

func (g *Generator) Generate(_ context.Context, in reply.Input) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, in)
	g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

// Calls returns a copy of all recorded inputs.
func (g *Generator) Calls() []reply.Input {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]reply.Input, len(g.calls))
	copy(out, g.calls)
	return out
}
