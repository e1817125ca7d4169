package pipeline

import (
	"time"

	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
)

// HardFailureMode decides what the caller sees when a hard stage
// (transcription or pronunciation assessment) fails.
type HardFailureMode int

const (
	// FallbackOnHardFailure returns a complete placeholder response with
	// success=true and the error text in the message. The learner never sees
	// a hard error. This is the default, matching the product decision that
	// an evaluation session should not dead-end.
	FallbackOnHardFailure HardFailureMode = iota

	// ErrorOnHardFailure surfaces the classified error to the transport
	// layer instead (503 for unavailable capabilities, 500 otherwise).
	ErrorOnHardFailure
)

// Fixed defaults substituted when a soft stage fails.
const (
	degradedGrammarScore         = 88
	degradedAppropriatenessScore = 92

	degradedGrammarFeedback         = "おおむね正確です。助詞の使い方に注意しましょう。"
	degradedAppropriatenessFeedback = "状況に合った表現です。"

	// defaultReply is spoken when reply generation fails.
	defaultReply = "わかりました。詳しくお話を聞かせてください。"
)

// degradedEvaluation is the fixed ScoreSet used when the grammar evaluator
// fails.
func degradedEvaluation() evaluate.ScoreSet {
	return evaluate.ScoreSet{
		Grammar:                 degradedGrammarScore,
		Appropriateness:         degradedAppropriatenessScore,
		GrammarFeedback:         degradedGrammarFeedback,
		AppropriatenessFeedback: degradedAppropriatenessFeedback,
	}
}

// Placeholder scores for the orchestrator-level fallback response.
const (
	fallbackOverallScore         = 85
	fallbackPronunciationScore   = 88
	fallbackGrammarScore         = 82
	fallbackAppropriatenessScore = 85
	fallbackExp                  = 150
)

// fallbackResponse is the complete placeholder InteractionResponse returned
// when a hard stage fails under FallbackOnHardFailure, or when an
// unclassified error escapes a stage. success stays true; the failure text
// is only visible in the message field.
func fallbackResponse(interactionID, scenarioID, errText string) *InteractionResponse {
	msg := "評価が完了しました（フォールバック応答）"
	if errText != "" {
		msg += " " + errText
	}
	return &InteractionResponse{
		InteractionID: interactionID,
		ScenarioID:    scenarioID,
		Evaluation: EvaluationResult{
			OverallScore: fallbackOverallScore,
			Pronunciation: FeedbackCategory{
				Name:        CategoryPronunciation,
				Score:       fallbackPronunciationScore,
				Description: "明確で自然です",
				Suggestions: []string{"もう少しゆっくり発音するとより良くなります"},
			},
			Grammar: FeedbackCategory{
				Name:        CategoryGrammar,
				Score:       fallbackGrammarScore,
				Description: "おおむね正確です",
				Suggestions: []string{"助詞の使い方に注意しましょう"},
			},
			Appropriateness: FeedbackCategory{
				Name:        CategoryAppropriateness,
				Score:       fallbackAppropriatenessScore,
				Description: "状況に適切です",
				Suggestions: []string{},
			},
			Transcription: "[音声認識結果]",
			CorrectedText: "[補正されたテキスト]",
			ExampleResponses: []string{
				"すみません。手伝っていただけますか。",
			},
		},
		MatchedKeywords:    []string{},
		MissingKeywords:    []string{},
		AIResponseText:     "わかりました。どうしましたか。",
		AIResponseAudioURL: nil,
		ExpEarned:          fallbackExp,
		Timestamp:          time.Now(),
		Success:            true,
		Message:            msg,
	}
}
