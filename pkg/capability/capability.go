// Package capability defines the shared failure taxonomy for the external
// language and speech capabilities that the interaction pipeline consumes.
//
// Every capability client (speech-to-text, text correction, pronunciation
// assessment, grammar evaluation, reply generation, speech synthesis) reports
// failures through one of three error kinds:
//
//   - [UnavailableError] — the capability was never configured or its client
//     could not be constructed. Not retryable without operator intervention.
//   - [ExecutionError] — the capability was reachable but the call failed or
//     returned an unusable result (no recognizable speech, malformed response).
//   - [ConfigurationError] — the capability is present but its settings are
//     invalid.
//
// Callers distinguish the kinds with [errors.As] or the IsUnavailable,
// IsExecution and IsConfiguration helpers. The pipeline's fallback policy
// decides per stage whether any of these aborts the run or degrades to a
// stage-local default.
package capability

import (
	"errors"
	"fmt"
)

// UnavailableError reports that a capability is not available at all:
// missing credentials, failed client construction, or deliberately
// unconfigured. It carries the capability's human-readable service name.
type UnavailableError struct {
	// Service is the capability's display name (e.g. "Google Speech-to-Text").
	Service string

	// Details describes why the capability is unavailable.
	Details string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("[%s] %s service is not available; check API credentials and configuration", e.Service, e.Service)
	if e.Details != "" {
		msg += " — " + e.Details
	}
	return msg
}

// ExecutionError reports that a capability call was attempted but failed, or
// succeeded with a result the caller cannot use.
type ExecutionError struct {
	Service string
	Details string

	// Err is the underlying cause, if any. Exposed via [ExecutionError.Unwrap].
	Err error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("[%s] execution failed", e.Service)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ConfigurationError reports that a capability's settings are present but
// invalid (bad region, malformed endpoint, unusable model name).
type ConfigurationError struct {
	Service string
	Details string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("[%s] configuration is invalid", e.Service)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Unavailable constructs an [UnavailableError].
func Unavailable(service, details string) error {
	return &UnavailableError{Service: service, Details: details}
}

// Execution constructs an [ExecutionError] wrapping err. err may be nil when
// the failure is fully described by details (e.g. an empty recognition result).
func Execution(service, details string, err error) error {
	return &ExecutionError{Service: service, Details: details, Err: err}
}

// Misconfigured constructs a [ConfigurationError].
func Misconfigured(service, details string) error {
	return &ConfigurationError{Service: service, Details: details}
}

// IsUnavailable reports whether err is (or wraps) an [UnavailableError].
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// IsExecution reports whether err is (or wraps) an [ExecutionError].
func IsExecution(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// IsConfiguration reports whether err is (or wraps) a [ConfigurationError].
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ServiceName returns the service name carried by a classified capability
// error, or "" when err is not classified.
func ServiceName(err error) string {
	var (
		ue *UnavailableError
		ee *ExecutionError
		ce *ConfigurationError
	)
	switch {
	case errors.As(err, &ue):
		return ue.Service
	case errors.As(err, &ee):
		return ee.Service
	case errors.As(err, &ce):
		return ce.Service
	}
	return ""
}
