package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	llmmock "github.com/kaiwalab/kaiwa/pkg/llm/mock"
)

const verdictJSON = `{
	"grammar": {"score": 78, "feedback": "助詞の使い方に小さな誤りがあります。"},
	"appropriateness": {"score": 91, "feedback": "丁寧な表現が状況に合っています。"},
	"example_responses": ["すみません、会計をお願いします。"],
	"coaching_advice": "「を」と「が」の使い分けを練習しましょう。"
}`

func TestEvaluateParsesVerdict(t *testing.T) {
	t.Parallel()
	provider := &llmmock.Provider{Responses: []string{"```json\n" + verdictJSON + "\n```"}}
	e, err := New(provider)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	set, err := e.Evaluate(context.Background(), evaluate.Input{
		Corrected:       "すみません、会計をお願いします。",
		Raw:             "すいません、海底をお願いします。",
		ScenarioContext: "レストランで店員と話しています。",
		MatchedKeywords: []string{"会計"},
		MissingKeywords: []string{"お願い"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if set.Grammar != 78 || set.Appropriateness != 91 {
		t.Errorf("scores = %d/%d", set.Grammar, set.Appropriateness)
	}
	if len(set.ExampleResponses) != 1 {
		t.Errorf("examples = %v", set.ExampleResponses)
	}
	if set.CoachingAdvice == "" {
		t.Error("missing coaching advice")
	}

	prompt := provider.Calls[0].Messages[0].Content
	for _, want := range []string{"レストラン", "海底", "会計"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEvaluateClampsScores(t *testing.T) {
	t.Parallel()
	provider := &llmmock.Provider{Responses: []string{
		`{"grammar": {"score": 140}, "appropriateness": {"score": -5}}`,
	}}
	e, _ := New(provider)

	set, err := e.Evaluate(context.Background(), evaluate.Input{Corrected: "x"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if set.Grammar != 100 || set.Appropriateness != 0 {
		t.Errorf("scores = %d/%d, want 100/0", set.Grammar, set.Appropriateness)
	}
}

func TestEvaluateNonJSONOutput(t *testing.T) {
	t.Parallel()
	provider := &llmmock.Provider{Responses: []string{"申し訳ありません、評価できません。"}}
	e, _ := New(provider)

	_, err := e.Evaluate(context.Background(), evaluate.Input{Corrected: "x"})
	if !capability.IsExecution(err) {
		t.Errorf("expected execution error, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, in, want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around", "結果です:\n{\"a\": 1}\n以上です。", `{"a": 1}`},
		{"no object", "評価できません", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
