package pipeline

import (
	"fmt"

	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
)

// Suggestion extraction thresholds.
const (
	wordAccuracyThreshold = 70
	fluencyThreshold      = 70
	pronThreshold         = 70
	maxWordSuggestions    = 3
)

// Generic suggestions appended after the per-word ones.
const (
	rhythmSuggestion  = "もう少しゆっくり、リズムを意識して話しましょう"
	claritySuggestion = "一つ一つの音をはっきり発音しましょう"
)

// pronunciationSuggestions builds the learner-facing suggestion list from an
// assessment. Up to three low-accuracy words get a per-word suggestion, in
// assessor order, followed by the generic rhythm and clarity suggestions
// when the corresponding sub-scores are low.
func pronunciationSuggestions(set assess.ScoreSet) []string {
	var out []string
	for _, w := range set.Words {
		if len(out) == maxWordSuggestions {
			break
		}
		if w.Accuracy < wordAccuracyThreshold {
			out = append(out, fmt.Sprintf("「%s」の発音をもう一度練習しましょう", w.Word))
		}
	}
	if set.Fluency < fluencyThreshold {
		out = append(out, rhythmSuggestion)
	}
	if set.Pronunciation < pronThreshold {
		out = append(out, claritySuggestion)
	}
	return out
}
