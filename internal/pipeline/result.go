package pipeline

// Outcome tags how a stage (or the whole pipeline) concluded.
type Outcome int

const (
	// OutcomeOK means the stage produced its real value.
	OutcomeOK Outcome = iota

	// OutcomeDegraded means the stage failed and its fixed default was
	// substituted.
	OutcomeDegraded

	// OutcomeFailed means a hard stage failed and processing stopped.
	OutcomeFailed
)

// String returns the metric/log label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one stage. Stages never panic or leak
// errors upward; callers branch on Outcome instead of error types.
type Result[T any] struct {
	Value   T
	Outcome Outcome

	// Reason holds the failure text when Outcome is not OK.
	Reason string
}

// ok wraps a successful stage value.
func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

// degraded wraps a substituted default together with the failure reason.
func degraded[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeDegraded, Reason: reason}
}

// failed marks a hard-stage failure.
func failed[T any](reason string) Result[T] {
	return Result[T]{Outcome: OutcomeFailed, Reason: reason}
}
