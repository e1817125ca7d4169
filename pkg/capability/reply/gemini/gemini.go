// Package gemini provides an LLM-backed reply Generator. It works with any
// llm.Provider backend; Gemini is the production default.
package gemini

import (
	"context"
	"fmt"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	correctgemini "github.com/kaiwalab/kaiwa/pkg/capability/correct/gemini"
	"github.com/kaiwalab/kaiwa/pkg/capability/reply"
	"github.com/kaiwalab/kaiwa/pkg/llm"
)

const serviceName = "Reply Generation"

// Replies are conversational, so a higher temperature than correction.
const (
	temperature = 0.7
	maxTokens   = 100
)

// Generator implements [reply.Generator] on top of an [llm.Provider].
type Generator struct {
	provider llm.Provider
}

var _ reply.Generator = (*Generator)(nil)

// New constructs a Generator. provider must not be nil.
func New(provider llm.Provider) (*Generator, error) {
	if provider == nil {
		return nil, capability.Misconfigured(serviceName, "nil LLM provider")
	}
	return &Generator{provider: provider}, nil
}

// Generate produces the scenario partner's next line.
func (g *Generator) Generate(ctx context.Context, in reply.Input) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(in)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", capability.Execution(serviceName, "completion", err)
	}

	line := correctgemini.Sanitize(resp.Content)
	if line == "" {
		return "", capability.Execution(serviceName, "model returned empty reply", nil)
	}
	return line, nil
}

func buildPrompt(in reply.Input) string {
	return fmt.Sprintf(`あなたは親切な日本人のキャラクターです。次の状況で、店員・駅員・相手役として学習者の発話に自然に応答してください。

**状況:**
%s

**学習者:**
%s

**学習者のレベル:** %s

自然で助けになる日本語で、1文だけ答えてください。説明は不要で、応答のみを書いてください。`, in.ScenarioContext, in.Corrected, levelHint(in.OverallScore))
}

// levelHint turns the learner's overall score into phrasing guidance so a
// struggling learner gets a simpler reply than a fluent one.
func levelHint(score int) string {
	switch {
	case score >= 90:
		return "上級(自然な表現で話してください)"
	case score >= 70:
		return "中級(標準的な表現で話してください)"
	default:
		return "初級(簡単な語彙と短い文で話してください)"
	}
}
