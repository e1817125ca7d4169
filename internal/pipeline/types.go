package pipeline

import "time"

// Feedback category names shown to the learner.
const (
	CategoryPronunciation   = "発音"
	CategoryGrammar         = "文法"
	CategoryAppropriateness = "適切性 (TPO)"
)

// FeedbackCategory is one scored feedback axis of the evaluation.
type FeedbackCategory struct {
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

// EvaluationResult is the caller-visible verdict for one utterance.
type EvaluationResult struct {
	OverallScore     int              `json:"overall_score"`
	Pronunciation    FeedbackCategory `json:"pronunciation"`
	Grammar          FeedbackCategory `json:"grammar"`
	Appropriateness  FeedbackCategory `json:"appropriateness"`
	Transcription    string           `json:"transcription"`
	CorrectedText    string           `json:"corrected_text"`
	ExampleResponses []string         `json:"example_responses"`
	CoachingAdvice   string           `json:"coaching_advice"`
}

// InteractionResponse is the full API result for one processed interaction.
// Immutable once assembled.
type InteractionResponse struct {
	InteractionID      string           `json:"interaction_id"`
	ScenarioID         string           `json:"scenario_id"`
	Evaluation         EvaluationResult `json:"evaluation"`
	MatchedKeywords    []string         `json:"matched_keywords"`
	MissingKeywords    []string         `json:"missing_keywords"`
	AIResponseText     string           `json:"ai_response_text"`
	AIResponseAudioURL *string          `json:"ai_response_audio_url"`
	ExpEarned          int              `json:"exp_earned"`
	Timestamp          time.Time        `json:"timestamp"`
	Success            bool             `json:"success"`
	Message            string           `json:"message"`
}
