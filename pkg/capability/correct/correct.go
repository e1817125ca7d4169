// Package correct defines the Corrector interface for context-aware
// transcript correction.
//
// Raw speech-to-text output frequently mishears homophones and particles,
// especially from learner speech. A Corrector rewrites the raw transcript
// into the sentence the speaker most plausibly intended, guided by the
// scenario's situation description. The corrected text doubles as the
// reference text for pronunciation assessment downstream.
//
// Implementations must be safe for concurrent use.
package correct

import "context"

// Corrector rewrites a raw transcript using the scenario context.
//
// Correct returns a single-line corrected sentence. When the raw text needs
// no changes it is returned unchanged. Failures follow the capability error
// taxonomy; the caller decides whether to degrade to the raw text.
type Corrector interface {
	Correct(ctx context.Context, raw, scenarioContext string) (string, error)
}
