// Package scenario holds the learning scenario catalog.
//
// The catalog is loaded once at startup, either from the embedded default or
// from an operator-supplied YAML file, and is read-only afterwards.
package scenario

import (
	"fmt"
	"regexp"
	"strings"
)

// idPattern is the shape every catalog id must have: scenario_NNN with an
// optional chapter suffix, e.g. scenario_001 or scenario_001_2.
var idPattern = regexp.MustCompile(`^scenario_\d{3}(_\d+)?$`)

// genericContext is used when a scenario has no situation text of its own.
const genericContext = "日本語会話の練習をしています。"

// Scenario is one learning situation.
type Scenario struct {
	ID                string   `yaml:"id" json:"id"`
	Category          string   `yaml:"category" json:"category"`
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	Mission           string   `yaml:"mission" json:"mission"`
	ImageURL          string   `yaml:"image_url" json:"image_url"`
	CharacterAudioURL string   `yaml:"character_audio_url,omitempty" json:"character_audio_url,omitempty"`
	DifficultyLevel   int      `yaml:"difficulty_level" json:"difficulty_level"`
	ExpectedKeywords  []string `yaml:"expected_keywords" json:"expected_keywords"`

	// Context is the Japanese situation text fed to the LLM stages. Distinct
	// from Description, which is shown to the learner.
	Context string `yaml:"context,omitempty" json:"-"`
}

// ValidID reports whether id has the catalog id shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Chapter returns the chapter number embedded in the id's trailing suffix,
// or 0 when the id has no chapter suffix (a single-chapter scenario).
func (s Scenario) Chapter() int {
	parts := strings.Split(s.ID, "_")
	if len(parts) != 3 {
		return 0
	}
	var ch int
	fmt.Sscanf(parts[2], "%d", &ch)
	return ch
}

// FirstChapter reports whether the scenario is a valid conversation entry
// point: either single-chapter or explicitly chapter 1.
func (s Scenario) FirstChapter() bool {
	ch := s.Chapter()
	return ch == 0 || ch == 1
}

func (s Scenario) validate() error {
	if !ValidID(s.ID) {
		return fmt.Errorf("scenario id %q does not match %s", s.ID, idPattern)
	}
	if s.Title == "" {
		return fmt.Errorf("scenario %s: title must not be empty", s.ID)
	}
	if s.DifficultyLevel < 1 || s.DifficultyLevel > 5 {
		return fmt.Errorf("scenario %s: difficulty_level %d outside [1, 5]", s.ID, s.DifficultyLevel)
	}
	return nil
}
