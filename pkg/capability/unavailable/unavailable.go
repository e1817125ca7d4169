// Package unavailable provides stand-in capability implementations for
// backends that were not configured. Every call fails with a
// capability.UnavailableError, so the pipeline's hard/soft failure policy
// decides what the learner sees instead of the server refusing to start.
package unavailable

import (
	"context"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
	"github.com/kaiwalab/kaiwa/pkg/capability/correct"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	"github.com/kaiwalab/kaiwa/pkg/capability/reply"
	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
	"github.com/kaiwalab/kaiwa/pkg/capability/synth"
)

const details = "not configured"

// Transcriber is an stt.Transcriber whose backend is not configured.
type Transcriber struct{}

var _ stt.Transcriber = Transcriber{}

func (Transcriber) Transcribe(context.Context, []byte, string) (stt.Transcript, error) {
	return stt.Transcript{}, capability.Unavailable("Speech Recognition", details)
}

// Corrector is a correct.Corrector whose backend is not configured.
type Corrector struct{}

var _ correct.Corrector = Corrector{}

func (Corrector) Correct(context.Context, string, string) (string, error) {
	return "", capability.Unavailable("Text Correction", details)
}

// Assessor is an assess.Assessor whose backend is not configured.
type Assessor struct{}

var _ assess.Assessor = Assessor{}

func (Assessor) Assess(context.Context, []byte, string, string) (assess.ScoreSet, error) {
	return assess.ScoreSet{}, capability.Unavailable("Pronunciation Assessment", details)
}

// Evaluator is an evaluate.Evaluator whose backend is not configured.
type Evaluator struct{}

var _ evaluate.Evaluator = Evaluator{}

func (Evaluator) Evaluate(context.Context, evaluate.Input) (evaluate.ScoreSet, error) {
	return evaluate.ScoreSet{}, capability.Unavailable("Grammar Evaluation", details)
}

// Generator is a reply.Generator whose backend is not configured.
type Generator struct{}

var _ reply.Generator = Generator{}

func (Generator) Generate(context.Context, reply.Input) (string, error) {
	return "", capability.Unavailable("Reply Generation", details)
}

// Synthesizer is a synth.Synthesizer whose backend is not configured.
type Synthesizer struct{}

var _ synth.Synthesizer = Synthesizer{}

func (Synthesizer) Synthesize(context.Context, string, string) (string, error) {
	return "", capability.Unavailable("Speech Synthesis", details)
}
