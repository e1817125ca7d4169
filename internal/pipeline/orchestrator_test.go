package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/kaiwalab/kaiwa/internal/scenario"
	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
	assessmock "github.com/kaiwalab/kaiwa/pkg/capability/assess/mock"
	correctmock "github.com/kaiwalab/kaiwa/pkg/capability/correct/mock"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	evaluatemock "github.com/kaiwalab/kaiwa/pkg/capability/evaluate/mock"
	replymock "github.com/kaiwalab/kaiwa/pkg/capability/reply/mock"
	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
	sttmock "github.com/kaiwalab/kaiwa/pkg/capability/stt/mock"
	synthmock "github.com/kaiwalab/kaiwa/pkg/capability/synth/mock"
)

const testCatalog = `scenarios:
  - id: scenario_001
    category: emergency
    title: なくした財布
    description: d
    mission: m
    image_url: /i.jpg
    difficulty_level: 3
    expected_keywords: ["財布", "届け出"]
    context: 電車の駅で財布をなくしました。
`

// fixture bundles the orchestrator with its mock dependencies so tests can
// both drive and inspect every stage.
type fixture struct {
	transcriber *sttmock.Transcriber
	corrector   *correctmock.Corrector
	assessor    *assessmock.Assessor
	evaluator   *evaluatemock.Evaluator
	generator   *replymock.Generator
	synthesizer *synthmock.Synthesizer
	orch        *Orchestrator
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cat, err := scenario.Parse(strings.NewReader(testCatalog), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Parse catalog: %v", err)
	}

	f := &fixture{
		transcriber: &sttmock.Transcriber{
			Transcript: stt.Transcript{Text: "すいません、財布をなくしました。", Language: "ja-JP", Confidence: 0.94},
		},
		corrector: &correctmock.Corrector{Corrected: "すみません、財布をなくしました。"},
		assessor: &assessmock.Assessor{
			Scores: assess.ScoreSet{
				Accuracy:      80,
				Pronunciation: 90,
				Completeness:  100,
				Fluency:       70,
				Words: []assess.WordScore{
					{Word: "すみません", Accuracy: 95, ErrorType: "None"},
					{Word: "財布", Accuracy: 85, ErrorType: "None"},
				},
			},
		},
		evaluator: &evaluatemock.Evaluator{
			Scores: evaluate.ScoreSet{
				Grammar:                 85,
				Appropriateness:         95,
				GrammarFeedback:         "正確です。",
				AppropriatenessFeedback: "丁寧です。",
				ExampleResponses:        []string{"財布を紛失しました。"},
				CoachingAdvice:          "その調子です。",
			},
		},
		generator:   &replymock.Generator{Reply: "かしこまりました。特徴を教えてください。"},
		synthesizer: &synthmock.Synthesizer{},
	}

	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	f.orch = New(Deps{
		Transcriber: f.transcriber,
		Corrector:   f.corrector,
		Assessor:    f.assessor,
		Evaluator:   f.evaluator,
		Generator:   f.generator,
		Synthesizer: f.synthesizer,
		Catalog:     cat,
	}, opts...)
	return f
}

func (f *fixture) process(t *testing.T) *InteractionResponse {
	t.Helper()
	resp, err := f.orch.Process(context.Background(), "scenario_001", []byte("audio"), "clip.wav", "user1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return resp
}

func TestProcessHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	resp := f.process(t)

	if !resp.Success {
		t.Error("Success = false")
	}
	if !regexp.MustCompile(`^int_[0-9a-f]{12}$`).MatchString(resp.InteractionID) {
		t.Errorf("InteractionID = %q", resp.InteractionID)
	}
	// pronAvg = 90*0.5 + 80*0.3 + 70*0.2 = 83
	// overall = round(83*0.4 + 85*0.3 + 95*0.3) = 87
	if resp.Evaluation.OverallScore != 87 {
		t.Errorf("OverallScore = %d, want 87", resp.Evaluation.OverallScore)
	}
	if resp.Evaluation.Pronunciation.Score != 83 {
		t.Errorf("Pronunciation.Score = %d, want 83", resp.Evaluation.Pronunciation.Score)
	}
	if resp.ExpEarned != 150 {
		t.Errorf("ExpEarned = %d, want 150", resp.ExpEarned)
	}
	if resp.Evaluation.Transcription != "すいません、財布をなくしました。" {
		t.Errorf("Transcription = %q", resp.Evaluation.Transcription)
	}
	if resp.Evaluation.CorrectedText != "すみません、財布をなくしました。" {
		t.Errorf("CorrectedText = %q", resp.Evaluation.CorrectedText)
	}
	if resp.AIResponseText != "かしこまりました。特徴を教えてください。" {
		t.Errorf("AIResponseText = %q", resp.AIResponseText)
	}
	if resp.AIResponseAudioURL == nil {
		t.Fatal("AIResponseAudioURL = nil")
	}
	if want := "/uploads/audio/" + resp.InteractionID + "_response.mp3"; *resp.AIResponseAudioURL != want {
		t.Errorf("AIResponseAudioURL = %q, want %q", *resp.AIResponseAudioURL, want)
	}
}

func TestProcessUsesCorrectedTextAsReference(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.process(t)

	calls := f.assessor.Calls()
	if len(calls) != 1 {
		t.Fatalf("assessor calls = %d", len(calls))
	}
	if calls[0].ReferenceText != "すみません、財布をなくしました。" {
		t.Errorf("reference = %q, want corrected text", calls[0].ReferenceText)
	}

	evals := f.evaluator.Calls()
	if len(evals) != 1 {
		t.Fatalf("evaluator calls = %d", len(evals))
	}
	if evals[0].Raw != "すいません、財布をなくしました。" {
		t.Errorf("evaluator raw = %q", evals[0].Raw)
	}
	if evals[0].ScenarioContext != "電車の駅で財布をなくしました。" {
		t.Errorf("evaluator context = %q", evals[0].ScenarioContext)
	}
	if len(evals[0].MatchedKeywords) != 1 || evals[0].MatchedKeywords[0] != "財布" {
		t.Errorf("matched keywords = %v", evals[0].MatchedKeywords)
	}
}

func TestProcessHardFailureReturnsFallback(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.transcriber.Err = capability.Unavailable("Google Speech-to-Text", "no credentials")

	resp := f.process(t)

	if !resp.Success {
		t.Error("Success = false, want true even on hard failure")
	}
	if !strings.Contains(resp.Message, "no credentials") {
		t.Errorf("Message = %q, want embedded error text", resp.Message)
	}
	if resp.Evaluation.OverallScore != 85 {
		t.Errorf("OverallScore = %d, want placeholder 85", resp.Evaluation.OverallScore)
	}
	if resp.AIResponseAudioURL != nil {
		t.Error("AIResponseAudioURL should be nil in fallback")
	}
	// Later stages must not run after a hard failure.
	if len(f.assessor.Calls()) != 0 || len(f.synthesizer.Calls()) != 0 {
		t.Error("stages ran after hard failure")
	}
}

func TestProcessAssessmentHardFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.assessor.Err = capability.Execution("Azure Pronunciation Assessment", "recognition failed", nil)

	resp := f.process(t)

	if !resp.Success || resp.Evaluation.OverallScore != 85 {
		t.Errorf("expected fallback response, got %+v", resp.Evaluation)
	}
	if len(f.evaluator.Calls()) != 0 {
		t.Error("evaluation ran after assessment hard failure")
	}
}

func TestProcessErrorOnHardFailureMode(t *testing.T) {
	t.Parallel()
	f := newFixture(t, WithHardFailureMode(ErrorOnHardFailure))
	f.transcriber.Err = capability.Unavailable("Google Speech-to-Text", "no credentials")

	_, err := f.orch.Process(context.Background(), "scenario_001", []byte("audio"), "clip.wav", "")
	if !capability.IsUnavailable(err) {
		t.Errorf("expected unavailable error, got %v", err)
	}
}

func TestProcessSoftEvaluationFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.evaluator.Err = capability.Execution("Grammar Evaluation", "quota exceeded", nil)

	resp := f.process(t)

	// Real earlier-stage results survive.
	if resp.Evaluation.Transcription != "すいません、財布をなくしました。" {
		t.Errorf("Transcription = %q", resp.Evaluation.Transcription)
	}
	if resp.Evaluation.Pronunciation.Score != 83 {
		t.Errorf("Pronunciation.Score = %d", resp.Evaluation.Pronunciation.Score)
	}
	// Grammar and appropriateness replaced by fixed mocks.
	if resp.Evaluation.Grammar.Score != 88 {
		t.Errorf("Grammar.Score = %d, want 88", resp.Evaluation.Grammar.Score)
	}
	if resp.Evaluation.Appropriateness.Score != 92 {
		t.Errorf("Appropriateness.Score = %d, want 92", resp.Evaluation.Appropriateness.Score)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	// Later stages still run.
	if len(f.synthesizer.Calls()) != 1 {
		t.Error("synthesis did not run after soft failure")
	}
}

func TestProcessSoftCorrectionFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.corrector.Err = capability.Execution("Text Correction", "empty output", nil)

	resp := f.process(t)

	if resp.Evaluation.CorrectedText != "すいません、財布をなくしました。" {
		t.Errorf("CorrectedText = %q, want raw passthrough", resp.Evaluation.CorrectedText)
	}
	// The raw transcript becomes the assessment reference.
	if calls := f.assessor.Calls(); len(calls) != 1 || calls[0].ReferenceText != "すいません、財布をなくしました。" {
		t.Errorf("assessor calls = %+v", calls)
	}
}

func TestProcessSoftReplyFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.generator.Err = capability.Execution("Reply Generation", "timeout", nil)

	resp := f.process(t)

	if resp.AIResponseText != defaultReply {
		t.Errorf("AIResponseText = %q, want default phrase", resp.AIResponseText)
	}
	// The default phrase is still synthesized.
	if calls := f.synthesizer.Calls(); len(calls) != 1 || calls[0].Text != defaultReply {
		t.Errorf("synthesizer calls = %+v", calls)
	}
}

func TestProcessSoftSynthesisFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.synthesizer.Err = capability.Execution("Google Text-to-Speech", "write failed", nil)

	resp := f.process(t)

	if resp.AIResponseAudioURL != nil {
		t.Error("AIResponseAudioURL should be nil when synthesis fails")
	}
	if resp.AIResponseText == "" || !resp.Success {
		t.Errorf("rest of response affected: %+v", resp)
	}
}

func TestProcessOutOfRangeScoreFallsBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.assessor.Scores.Accuracy = 250

	resp := f.process(t)
	if resp.Evaluation.OverallScore != 85 || !resp.Success {
		t.Errorf("expected fallback response, got %+v", resp.Evaluation)
	}
}

func TestNewInteractionIDUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for range 100 {
		id := newInteractionID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
