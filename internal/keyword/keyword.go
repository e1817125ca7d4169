// Package keyword measures how well an utterance covers a scenario's
// expected keywords.
//
// Exact substring matches are checked first. Near matches are then caught
// with Jaro-Winkler similarity over rune windows, so a slightly garbled
// transcription of a keyword still counts as covered.
package keyword

import "github.com/antzucaro/matchr"

// similarityThreshold is the minimum Jaro-Winkler score for a fuzzy match.
const similarityThreshold = 0.88

// Coverage is the result of matching an utterance against expected keywords.
type Coverage struct {
	// Matched keywords, in catalog order.
	Matched []string

	// Missing keywords, in catalog order.
	Missing []string
}

// Ratio returns the matched share in [0.0, 1.0]. An empty keyword list
// counts as full coverage.
func (c Coverage) Ratio() float64 {
	total := len(c.Matched) + len(c.Missing)
	if total == 0 {
		return 1.0
	}
	return float64(len(c.Matched)) / float64(total)
}

// Match checks each keyword against text and splits the list into matched
// and missing.
func Match(text string, keywords []string) Coverage {
	var cov Coverage
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if contains(text, kw) {
			cov.Matched = append(cov.Matched, kw)
		} else {
			cov.Missing = append(cov.Missing, kw)
		}
	}
	return cov
}

func contains(text, keyword string) bool {
	t := []rune(text)
	k := []rune(keyword)
	if len(k) == 0 || len(k) > len(t) {
		return false
	}

	// Slide a keyword-sized window over the text. An exact window hit is a
	// substring match; otherwise fall back to similarity.
	for i := 0; i+len(k) <= len(t); i++ {
		window := string(t[i : i+len(k)])
		if window == keyword {
			return true
		}
		if matchr.JaroWinkler(window, keyword, false) >= similarityThreshold {
			return true
		}
	}
	return false
}
