// Package llm defines a minimal Provider interface for Large Language Model
// backends used by the LLM-backed capabilities (text correction, grammar
// evaluation, reply generation).
//
// Only blocking completions are exposed. The interaction pipeline never
// streams model output — every stage needs the full text before the next
// stage can run — so the streaming surface of the underlying SDK is not part
// of this contract.
//
// Implementations must be safe for concurrent use.
package llm

import "context"

// Message is one entry of the conversation sent to the model.
type Message struct {
	// Role is "system", "user" or "assistant".
	Role string

	// Content is the text content of the message.
	Content string
}

// CompletionRequest carries everything the model needs to produce a response.
type CompletionRequest struct {
	// Messages is the ordered conversation. At minimum one user message.
	Messages []Message

	// SystemPrompt is an optional instruction injected before Messages.
	SystemPrompt string

	// Temperature controls output randomness in [0.0, 2.0]. Zero requests the
	// provider default.
	Temperature float64

	// MaxTokens caps completion length. Zero means provider default.
	MaxTokens int
}

// Usage holds token accounting reported by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionResponse is the model's full reply.
type CompletionResponse struct {
	// Content is the assistant's text.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// Provider is the abstraction over any LLM backend.
//
// Complete sends req to the model and waits for the full response. It must
// propagate context cancellation promptly.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
