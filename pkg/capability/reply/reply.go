// Package reply defines the conversational reply generation capability.
//
// A Generator produces the in-character answer the scenario partner (clerk,
// station attendant, and so on) speaks back to the learner.
package reply

import "context"

// Input carries what the generator needs to answer in character.
type Input struct {
	// Corrected is the learner's corrected utterance.
	Corrected string

	// ScenarioContext describes the conversational situation.
	ScenarioContext string

	// OverallScore is the learner's overall evaluation score, letting the
	// generator adapt difficulty of its phrasing.
	OverallScore int
}

// Generator produces one Japanese reply sentence.
type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}
