// Package assess defines the pronunciation assessment capability.
//
// An Assessor scores how closely spoken audio matches a reference text. The
// reference is the corrected transcript when correction succeeded, and the
// raw transcript otherwise.
package assess

import "context"

// WordScore is the per-word breakdown of an assessment.
type WordScore struct {
	// Word as recognized by the assessment service.
	Word string

	// Accuracy is the pronunciation accuracy for this word in [0, 100].
	Accuracy int

	// ErrorType is "None" for a clean word, otherwise the service's error
	// label such as "Mispronunciation" or "Omission".
	ErrorType string
}

// ScoreSet holds the full output of a pronunciation assessment. All scores
// are integers in [0, 100].
type ScoreSet struct {
	// Accuracy measures phoneme-level correctness against the reference.
	Accuracy int

	// Pronunciation is the service's overall pronunciation score.
	Pronunciation int

	// Completeness is the share of reference words actually spoken.
	Completeness int

	// Fluency measures pauses and rhythm.
	Fluency int

	// Words is the per-word breakdown, in spoken order. May be empty when
	// the service omits word detail.
	Words []WordScore
}

// Assessor scores pronunciation of audio against a reference text.
type Assessor interface {
	// Assess evaluates how well audio renders referenceText. filename is the
	// original upload name and is used to infer the audio container.
	Assess(ctx context.Context, audio []byte, filename, referenceText string) (ScoreSet, error)
}
