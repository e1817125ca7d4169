// Package pipeline drives the six-stage interaction evaluation chain:
// transcription, contextual correction, pronunciation assessment, grammar
// evaluation, reply generation and speech synthesis.
//
// The chain is strictly sequential per request. Transcription and
// pronunciation assessment are hard stages: without them the evaluation has
// no substance, so their failure ends processing. Every other stage is soft
// and degrades to a fixed default, keeping whatever the earlier stages
// already produced.
package pipeline

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaiwalab/kaiwa/internal/keyword"
	"github.com/kaiwalab/kaiwa/internal/observe"
	"github.com/kaiwalab/kaiwa/internal/scenario"
	"github.com/kaiwalab/kaiwa/internal/scoring"
	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
	"github.com/kaiwalab/kaiwa/pkg/capability/correct"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	"github.com/kaiwalab/kaiwa/pkg/capability/reply"
	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
	"github.com/kaiwalab/kaiwa/pkg/capability/synth"
)

// Stage labels used in logs and metrics.
const (
	stageTranscribe = "transcribe"
	stageCorrect    = "correct"
	stageAssess     = "assess"
	stageEvaluate   = "evaluate"
	stageReply      = "reply"
	stageSynthesize = "synthesize"
)

const defaultTimeout = 60 * time.Second

// successMessage is the message field of a fully processed interaction.
const successMessage = "評価が完了しました"

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithHardFailureMode overrides the default FallbackOnHardFailure policy.
func WithHardFailureMode(mode HardFailureMode) Option {
	return func(o *Orchestrator) {
		o.mode = mode
	}
}

// WithTimeout sets the per-request processing deadline (default 60s).
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMetrics replaces the default metrics instance.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Deps bundles the capability clients and the scenario catalog the
// orchestrator is built from. All fields are required.
type Deps struct {
	Transcriber stt.Transcriber
	Corrector   correct.Corrector
	Assessor    assess.Assessor
	Evaluator   evaluate.Evaluator
	Generator   reply.Generator
	Synthesizer synth.Synthesizer
	Catalog     *scenario.Catalog
}

// Orchestrator runs the evaluation pipeline. Construct once at startup and
// share across requests; it holds no per-request state.
type Orchestrator struct {
	deps    Deps
	mode    HardFailureMode
	timeout time.Duration
	metrics *observe.Metrics
	logger  *slog.Logger
}

// New constructs an Orchestrator from its dependencies.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:    deps,
		mode:    FallbackOnHardFailure,
		timeout: defaultTimeout,
		metrics: observe.DefaultMetrics(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newInteractionID returns a fresh correlation id of the form int_<12 hex>.
func newInteractionID() string {
	u := uuid.New()
	return "int_" + hex.EncodeToString(u[:6])
}

// Process runs the full pipeline for one uploaded utterance and assembles
// the response. userID is informational only; it has already been sanitized
// by the transport layer.
func (o *Orchestrator) Process(ctx context.Context, scenarioID string, audio []byte, filename, userID string) (*InteractionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := observe.StartSpan(ctx, "pipeline.Process",
		trace.WithAttributes(observe.Attr("scenario_id", scenarioID)),
	)
	defer span.End()

	interactionID := newInteractionID()
	logger := o.logger.With("interaction_id", interactionID, "scenario_id", scenarioID)
	if userID != "" {
		logger = logger.With("user_id", userID)
	}
	logger.Info("processing interaction", "filename", filename, "audio_bytes", len(audio))

	o.metrics.ActiveInteractions.Add(ctx, 1)
	defer o.metrics.ActiveInteractions.Add(ctx, -1)
	start := time.Now()
	defer func() {
		o.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
	}()

	scenarioContext := o.deps.Catalog.Context(scenarioID)

	// Stage 1: transcription (hard).
	transcript := o.transcribe(ctx, logger, audio, filename)
	if transcript.Outcome == OutcomeFailed {
		return o.hardFailure(ctx, logger, interactionID, scenarioID, stageTranscribe, transcript.Reason, transcript.err)
	}

	// Stage 2: contextual correction (soft). The corrected text doubles as
	// the reference for pronunciation assessment.
	corrected := o.correct(ctx, logger, transcript.Value.Text, scenarioContext)

	coverage := o.keywordCoverage(corrected.Value, scenarioID)

	// Stage 3: pronunciation assessment (hard), scored against the
	// corrected text.
	pron := o.assess(ctx, logger, audio, filename, corrected.Value)
	if pron.Outcome == OutcomeFailed {
		return o.hardFailure(ctx, logger, interactionID, scenarioID, stageAssess, pron.Reason, pron.err)
	}

	// Stage 4: grammar and appropriateness evaluation (soft).
	verdict := o.evaluate(ctx, logger, evaluate.Input{
		Corrected:       corrected.Value,
		Raw:             transcript.Value.Text,
		ScenarioContext: scenarioContext,
		MatchedKeywords: coverage.Matched,
		MissingKeywords: coverage.Missing,
	})

	agg, err := scoring.Aggregate(scoring.Input{
		Pronunciation:   pron.Value.Pronunciation,
		Accuracy:        pron.Value.Accuracy,
		Fluency:         pron.Value.Fluency,
		Grammar:         verdict.Value.Grammar,
		Appropriateness: verdict.Value.Appropriateness,
	})
	if err != nil {
		// A capability produced an out-of-range score. Treated like any
		// other unclassified failure.
		return o.hardFailure(ctx, logger, interactionID, scenarioID, "aggregate", err.Error(), err)
	}

	// Stage 5: reply generation (soft).
	replyText := o.generateReply(ctx, logger, reply.Input{
		Corrected:       corrected.Value,
		ScenarioContext: scenarioContext,
		OverallScore:    agg.Overall,
	})

	// Stage 6: speech synthesis (soft). Failure leaves the audio URL nil.
	audioURL := o.synthesize(ctx, logger, replyText.Value, interactionID)

	resp := &InteractionResponse{
		InteractionID: interactionID,
		ScenarioID:    scenarioID,
		Evaluation: EvaluationResult{
			OverallScore: agg.Overall,
			Pronunciation: FeedbackCategory{
				Name:        CategoryPronunciation,
				Score:       agg.PronunciationAvg,
				Description: pronunciationDescription(agg.PronunciationAvg),
				Suggestions: pronunciationSuggestions(pron.Value),
			},
			Grammar: FeedbackCategory{
				Name:        CategoryGrammar,
				Score:       verdict.Value.Grammar,
				Description: verdict.Value.GrammarFeedback,
				Suggestions: []string{},
			},
			Appropriateness: FeedbackCategory{
				Name:        CategoryAppropriateness,
				Score:       verdict.Value.Appropriateness,
				Description: verdict.Value.AppropriatenessFeedback,
				Suggestions: []string{},
			},
			Transcription:    transcript.Value.Text,
			CorrectedText:    corrected.Value,
			ExampleResponses: orEmpty(verdict.Value.ExampleResponses),
			CoachingAdvice:   verdict.Value.CoachingAdvice,
		},
		MatchedKeywords: orEmpty(coverage.Matched),
		MissingKeywords: orEmpty(coverage.Missing),
		AIResponseText:  replyText.Value,
		ExpEarned:       agg.Experience,
		Timestamp:       time.Now(),
		Success:         true,
		Message:         successMessage,
	}
	if audioURL.Outcome == OutcomeOK {
		resp.AIResponseAudioURL = &audioURL.Value
	}

	if resp.Evaluation.Pronunciation.Suggestions == nil {
		resp.Evaluation.Pronunciation.Suggestions = []string{}
	}

	outcome := OutcomeOK
	for _, st := range []Outcome{corrected.Outcome, verdict.Outcome, replyText.Outcome, audioURL.Outcome} {
		if st == OutcomeDegraded {
			outcome = OutcomeDegraded
			break
		}
	}
	o.metrics.RecordInteraction(ctx, outcome.String())
	logger.Info("interaction processed",
		"overall_score", agg.Overall,
		"exp_earned", agg.Experience,
		"outcome", outcome.String(),
	)
	return resp, nil
}

// stageResult augments Result with the original error so hard failures can
// be surfaced in ErrorOnHardFailure mode.
type stageResult[T any] struct {
	Result[T]
	err error
}

// hardFailure handles a hard-stage or unclassified failure according to the
// configured mode.
func (o *Orchestrator) hardFailure(ctx context.Context, logger *slog.Logger, interactionID, scenarioID, stage, reason string, err error) (*InteractionResponse, error) {
	logger.Error("hard stage failed", "stage", stage, "error", reason)
	o.metrics.RecordFallback(ctx, stage)
	o.metrics.RecordInteraction(ctx, "fallback")
	if o.mode == ErrorOnHardFailure {
		return nil, err
	}
	return fallbackResponse(interactionID, scenarioID, reason), nil
}

// errorKind maps a capability error to its metric label.
func errorKind(err error) string {
	switch {
	case capability.IsUnavailable(err):
		return "unavailable"
	case capability.IsExecution(err):
		return "execution"
	case capability.IsConfiguration(err):
		return "configuration"
	default:
		return "unclassified"
	}
}

// runStage wraps one capability call with latency and error accounting.
func runStage[T any](ctx context.Context, o *Orchestrator, stage string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		o.metrics.RecordCapabilityError(ctx, stage, errorKind(err))
	}
	o.metrics.RecordStage(ctx, stage, time.Since(start).Seconds(), status)
	return v, err
}

func (o *Orchestrator) transcribe(ctx context.Context, logger *slog.Logger, audio []byte, filename string) stageResult[stt.Transcript] {
	t, err := runStage(ctx, o, stageTranscribe, func(ctx context.Context) (stt.Transcript, error) {
		return o.deps.Transcriber.Transcribe(ctx, audio, filename)
	})
	if err != nil {
		return stageResult[stt.Transcript]{Result: failed[stt.Transcript](err.Error()), err: err}
	}
	logger.Info("transcribed", "text", t.Text, "confidence", t.Confidence)
	return stageResult[stt.Transcript]{Result: ok(t)}
}

func (o *Orchestrator) correct(ctx context.Context, logger *slog.Logger, raw, scenarioContext string) Result[string] {
	c, err := runStage(ctx, o, stageCorrect, func(ctx context.Context) (string, error) {
		return o.deps.Corrector.Correct(ctx, raw, scenarioContext)
	})
	if err != nil {
		logger.Warn("correction degraded to raw transcript", "error", err)
		o.metrics.RecordFallback(ctx, stageCorrect)
		return degraded(raw, err.Error())
	}
	return ok(c)
}

func (o *Orchestrator) keywordCoverage(corrected, scenarioID string) keyword.Coverage {
	s, err := o.deps.Catalog.ByID(scenarioID)
	if err != nil {
		return keyword.Coverage{}
	}
	return keyword.Match(corrected, s.ExpectedKeywords)
}

func (o *Orchestrator) assess(ctx context.Context, logger *slog.Logger, audio []byte, filename, referenceText string) stageResult[assess.ScoreSet] {
	set, err := runStage(ctx, o, stageAssess, func(ctx context.Context) (assess.ScoreSet, error) {
		return o.deps.Assessor.Assess(ctx, audio, filename, referenceText)
	})
	if err != nil {
		return stageResult[assess.ScoreSet]{Result: failed[assess.ScoreSet](err.Error()), err: err}
	}
	logger.Info("pronunciation assessed",
		"accuracy", set.Accuracy,
		"pronunciation", set.Pronunciation,
		"fluency", set.Fluency,
	)
	return stageResult[assess.ScoreSet]{Result: ok(set)}
}

func (o *Orchestrator) evaluate(ctx context.Context, logger *slog.Logger, in evaluate.Input) Result[evaluate.ScoreSet] {
	set, err := runStage(ctx, o, stageEvaluate, func(ctx context.Context) (evaluate.ScoreSet, error) {
		return o.deps.Evaluator.Evaluate(ctx, in)
	})
	if err != nil {
		logger.Warn("evaluation degraded to fixed scores", "error", err)
		o.metrics.RecordFallback(ctx, stageEvaluate)
		return degraded(degradedEvaluation(), err.Error())
	}
	return ok(set)
}

func (o *Orchestrator) generateReply(ctx context.Context, logger *slog.Logger, in reply.Input) Result[string] {
	text, err := runStage(ctx, o, stageReply, func(ctx context.Context) (string, error) {
		return o.deps.Generator.Generate(ctx, in)
	})
	if err != nil {
		logger.Warn("reply generation degraded to default phrase", "error", err)
		o.metrics.RecordFallback(ctx, stageReply)
		return degraded(defaultReply, err.Error())
	}
	return ok(text)
}

func (o *Orchestrator) synthesize(ctx context.Context, logger *slog.Logger, text, interactionID string) Result[string] {
	url, err := runStage(ctx, o, stageSynthesize, func(ctx context.Context) (string, error) {
		return o.deps.Synthesizer.Synthesize(ctx, text, interactionID)
	})
	if err != nil {
		logger.Warn("synthesis degraded, no reply audio", "error", err)
		o.metrics.RecordFallback(ctx, stageSynthesize)
		return degraded("", err.Error())
	}
	return ok(url)
}

// orEmpty keeps response list fields rendering as [] instead of null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// pronunciationDescription gives the short verdict line for the
// pronunciation category.
func pronunciationDescription(score int) string {
	switch {
	case score >= 90:
		return "明確で自然です"
	case score >= 70:
		return "おおむね聞き取りやすいです"
	default:
		return "もう少し練習が必要です"
	}
}
