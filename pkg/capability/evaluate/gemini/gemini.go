// Package gemini provides an LLM-backed Evaluator. It works with any
// llm.Provider backend; Gemini is the production default.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	"github.com/kaiwalab/kaiwa/pkg/llm"
)

const serviceName = "Grammar Evaluation"

const (
	temperature = 0.3
	maxTokens   = 1024
)

// Evaluator implements [evaluate.Evaluator] on top of an [llm.Provider].
type Evaluator struct {
	provider llm.Provider
}

var _ evaluate.Evaluator = (*Evaluator)(nil)

// New constructs an Evaluator. provider must not be nil.
func New(provider llm.Provider) (*Evaluator, error) {
	if provider == nil {
		return nil, capability.Misconfigured(serviceName, "nil LLM provider")
	}
	return &Evaluator{provider: provider}, nil
}

// modelVerdict is the JSON document the prompt instructs the model to emit.
type modelVerdict struct {
	Grammar struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	} `json:"grammar"`
	Appropriateness struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	} `json:"appropriateness"`
	ExampleResponses []string `json:"example_responses"`
	CoachingAdvice   string   `json:"coaching_advice"`
}

// Evaluate asks the model to judge grammar and situational appropriateness
// and parses the JSON verdict.
func (e *Evaluator) Evaluate(ctx context.Context, in evaluate.Input) (evaluate.ScoreSet, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(in)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return evaluate.ScoreSet{}, capability.Execution(serviceName, "completion", err)
	}

	raw := extractJSON(resp.Content)
	if raw == "" {
		return evaluate.ScoreSet{}, capability.Execution(serviceName, "model returned no JSON verdict", nil)
	}

	var v modelVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return evaluate.ScoreSet{}, capability.Execution(serviceName, "decode verdict", err)
	}

	return evaluate.ScoreSet{
		Grammar:                 clamp(v.Grammar.Score),
		Appropriateness:         clamp(v.Appropriateness.Score),
		GrammarFeedback:         strings.TrimSpace(v.Grammar.Feedback),
		AppropriatenessFeedback: strings.TrimSpace(v.Appropriateness.Feedback),
		ExampleResponses:        v.ExampleResponses,
		CoachingAdvice:          strings.TrimSpace(v.CoachingAdvice),
	}, nil
}

func buildPrompt(in evaluate.Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, `あなたは日本語会話の評価専門家です。学習者の発話を「文法」と「適切性 (TPO)」の2つの観点で評価してください。

**状況（シナリオ）:**
%s

**学習者の発話（補正後）:**
%s

**音声認識の生テキスト（参考）:**
%s
`, in.ScenarioContext, in.Corrected, in.Raw)

	if len(in.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "\n**使用できたキーワード:** %s\n", strings.Join(in.MatchedKeywords, "、"))
	}
	if len(in.MissingKeywords) > 0 {
		fmt.Fprintf(&b, "\n**使用できなかったキーワード:** %s\n", strings.Join(in.MissingKeywords, "、"))
	}

	b.WriteString(`
次のJSON形式でのみ回答してください（他の説明は一切不要です）:
{
    "grammar": {
        "score": 文法の点数 (0-100),
        "feedback": "文法についての短い日本語フィードバック"
    },
    "appropriateness": {
        "score": 適切性の点数 (0-100),
        "feedback": "TPOについての短い日本語フィードバック"
    },
    "example_responses": ["模範的な言い方 1", "模範的な言い方 2"],
    "coaching_advice": "次に活かせる具体的なアドバイスを1つ"
}`)
	return b.String()
}

// extractJSON pulls the JSON object out of a model reply that may be wrapped
// in markdown code fences or surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
