// Package gemini provides an LLM-backed Corrector. Despite the package name
// it works with any llm.Provider backend; Gemini is the production default.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/correct"
	"github.com/kaiwalab/kaiwa/pkg/llm"
)

const serviceName = "Text Correction"

// Low temperature: correction should be deterministic, not creative.
const (
	temperature = 0.1
	maxTokens   = 100
)

// Corrector implements [correct.Corrector] on top of an [llm.Provider].
type Corrector struct {
	provider llm.Provider
}

var _ correct.Corrector = (*Corrector)(nil)

// New constructs a Corrector. provider must not be nil.
func New(provider llm.Provider) (*Corrector, error) {
	if provider == nil {
		return nil, capability.Misconfigured(serviceName, "nil LLM provider")
	}
	return &Corrector{provider: provider}, nil
}

// Correct asks the model for the sentence the speaker most plausibly
// intended, given the scenario situation, and post-processes the reply into
// a single clean line.
func (c *Corrector) Correct(ctx context.Context, raw, scenarioContext string) (string, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(raw, scenarioContext)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", capability.Execution(serviceName, "completion", err)
	}

	corrected := Sanitize(resp.Content)
	if corrected == "" {
		return "", capability.Execution(serviceName, "model returned empty correction", nil)
	}
	return corrected, nil
}

// buildPrompt instructs the model to output only the corrected Japanese
// sentence, with no commentary, quotes, or markup.
func buildPrompt(raw, scenarioContext string) string {
	return fmt.Sprintf(`あなたは日本語音声認識の補正専門家です。

**状況（シナリオ）:**
%s

**音声認識結果（STT）:**
%s

**指示:**
上記の状況において、ユーザーが実際に言おうとした日本語の文章を推測し、補正してください。

**補正項目:**
1. 同音異義語の誤認識 (例: 太陽→財布、会計→海底)
2. 不自然な表現 (例: すいません→すみません)
3. 文法的な誤り
4. 状況に合わない単語の置き換え

**重要:**
- 説明は一切不要です
- 補正された日本語の文章だけを1行で出力してください
- 引用符やコメントは付けないでください
- 元の文章に誤りがなければそのまま返してください

補正結果:`, scenarioContext, raw)
}

// Sanitize reduces a model reply to a single clean correction line: code
// fences are removed, only the first non-empty line is kept, and wrapping
// quotes or Japanese corner brackets are stripped. Exported so tests and the
// other LLM capabilities can share the behavior.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Trim(line, `"'`)
		line = strings.TrimPrefix(line, "「")
		line = strings.TrimSuffix(line, "」")
		return strings.TrimSpace(line)
	}
	return ""
}
