// Package evaluate defines the grammar and appropriateness evaluation
// capability.
package evaluate

import "context"

// Input carries everything the evaluator needs to judge an utterance.
type Input struct {
	// Corrected is the text to evaluate, normally the corrected transcript.
	Corrected string

	// Raw is the uncorrected transcript, given for reference.
	Raw string

	// ScenarioContext describes the conversational situation.
	ScenarioContext string

	// MatchedKeywords are scenario keywords the speaker covered.
	MatchedKeywords []string

	// MissingKeywords are scenario keywords the speaker did not cover.
	MissingKeywords []string
}

// ScoreSet is the evaluator's judgment. Scores are integers in [0, 100].
type ScoreSet struct {
	// Grammar scores grammatical correctness.
	Grammar int

	// Appropriateness scores fit for the time, place and occasion of the
	// scenario.
	Appropriateness int

	// GrammarFeedback is a short Japanese note on grammar.
	GrammarFeedback string

	// AppropriatenessFeedback is a short Japanese note on situational fit.
	AppropriatenessFeedback string

	// ExampleResponses are better ways to phrase the utterance.
	ExampleResponses []string

	// CoachingAdvice is one actionable improvement tip.
	CoachingAdvice string
}

// Evaluator judges grammar and situational appropriateness of an utterance.
type Evaluator interface {
	Evaluate(ctx context.Context, in Input) (ScoreSet, error)
}
