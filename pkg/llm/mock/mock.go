// Package mock provides a test double for the llm package.
package mock

import (
	"context"
	"sync"

	"github.com/kaiwalab/kaiwa/pkg/llm"
)

// Provider is a mock implementation of llm.Provider.
//
// Responses are consumed in order; once exhausted, the last response repeats.
// Set Err to make every Complete call fail instead.
type Provider struct {
	mu sync.Mutex

	// Responses are returned from successive Complete calls.
	Responses []string

	// Err, if non-nil, is returned from every Complete call.
	Err error

	// Calls records every request passed to Complete.
	Calls []llm.CompletionRequest

	next int
}

var _ llm.Provider = (*Provider)(nil)

func (m *Provider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return &llm.CompletionResponse{}, nil
	}
	i := m.next
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	m.next++
	return &llm.CompletionResponse{Content: m.Responses[i]}, nil
}
