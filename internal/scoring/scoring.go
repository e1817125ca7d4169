// Package scoring combines pronunciation and grammar sub-scores into the
// overall evaluation score and the experience award.
//
// Everything here is a pure function of its inputs.
package scoring

import (
	"fmt"
	"math"
)

// Weights of the pronunciation sub-scores within the pronunciation average.
const (
	pronWeight     = 0.5
	accuracyWeight = 0.3
	fluencyWeight  = 0.2
)

// Weights of the three categories within the overall score.
const (
	pronunciationShare   = 0.4
	grammarShare         = 0.3
	appropriatenessShare = 0.3
)

// Input holds the five sub-scores the aggregate is computed from. All values
// must be integers in [0, 100].
type Input struct {
	Pronunciation   int
	Accuracy        int
	Fluency         int
	Grammar         int
	Appropriateness int
}

// Result is the aggregated outcome.
type Result struct {
	// Overall is the weighted overall score in [0, 100].
	Overall int

	// PronunciationAvg is the weighted pronunciation average, rounded.
	PronunciationAvg int

	// Experience is the award earned for this interaction.
	Experience int
}

// ValidationError reports a sub-score outside [0, 100]. Out-of-range inputs
// are rejected rather than clamped so upstream bugs surface instead of being
// silently absorbed.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scoring: %s score %d outside [0, 100]", e.Field, e.Value)
}

// Aggregate computes the overall score and experience award from the five
// sub-scores.
func Aggregate(in Input) (Result, error) {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"pronunciation", in.Pronunciation},
		{"accuracy", in.Accuracy},
		{"fluency", in.Fluency},
		{"grammar", in.Grammar},
		{"appropriateness", in.Appropriateness},
	} {
		if f.value < 0 || f.value > 100 {
			return Result{}, &ValidationError{Field: f.name, Value: f.value}
		}
	}

	pronAvg := float64(in.Pronunciation)*pronWeight +
		float64(in.Accuracy)*accuracyWeight +
		float64(in.Fluency)*fluencyWeight

	overall := int(math.Round(pronAvg*pronunciationShare +
		float64(in.Grammar)*grammarShare +
		float64(in.Appropriateness)*appropriatenessShare))

	return Result{
		Overall:          overall,
		PronunciationAvg: int(math.Round(pronAvg)),
		Experience:       Experience(overall),
	}, nil
}

// Experience maps an overall score to the experience award step function.
func Experience(overall int) int {
	switch {
	case overall >= 95:
		return 250
	case overall >= 90:
		return 200
	case overall >= 80:
		return 150
	case overall >= 70:
		return 100
	case overall >= 60:
		return 70
	default:
		return 50
	}
}
