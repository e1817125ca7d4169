package capability_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kaiwalab/kaiwa/pkg/capability"
)

func TestClassificationHelpers(t *testing.T) {
	t.Parallel()

	unavailable := capability.Unavailable("Azure Pronunciation Assessment", "missing key")
	execution := capability.Execution("Google Speech-to-Text", "no recognizable speech", nil)
	misconfigured := capability.Misconfigured("Gemini", "empty model name")

	if !capability.IsUnavailable(unavailable) {
		t.Errorf("IsUnavailable(unavailable) = false, want true")
	}
	if capability.IsUnavailable(execution) {
		t.Errorf("IsUnavailable(execution) = true, want false")
	}
	if !capability.IsExecution(execution) {
		t.Errorf("IsExecution(execution) = false, want true")
	}
	if !capability.IsConfiguration(misconfigured) {
		t.Errorf("IsConfiguration(misconfigured) = false, want true")
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("stage transcribe: %w", capability.Unavailable("Google Speech-to-Text", ""))
	if !capability.IsUnavailable(err) {
		t.Errorf("IsUnavailable(wrapped) = false, want true")
	}
	if got := capability.ServiceName(err); got != "Google Speech-to-Text" {
		t.Errorf("ServiceName(wrapped) = %q, want %q", got, "Google Speech-to-Text")
	}
}

func TestExecutionUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := capability.Execution("Gemini", "completion", cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Error() = %q, want cause mentioned", err.Error())
	}
}

func TestServiceNameUnclassified(t *testing.T) {
	t.Parallel()

	if got := capability.ServiceName(errors.New("plain")); got != "" {
		t.Errorf("ServiceName(plain) = %q, want empty", got)
	}
}
