package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kaiwalab/kaiwa/internal/scenario"
)

// Accepted audio container formats, by file extension.
var allowedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".amr":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
}

const maxUserIDLen = 64

// validationError marks a request rejected before the pipeline runs. status
// is the HTTP status to return.
type validationError struct {
	status int
	msg    string
}

func (e *validationError) Error() string {
	return e.msg
}

func invalid(status int, format string, args ...any) *validationError {
	return &validationError{status: status, msg: fmt.Sprintf(format, args...)}
}

// validateScenarioID rejects ids that do not match the catalog id shape.
func validateScenarioID(id string) error {
	if !scenario.ValidID(id) {
		return invalid(400, "invalid scenario_id %q", id)
	}
	return nil
}

// sanitizeUserID keeps only [A-Za-z0-9_-] and caps the length. An empty
// result is treated as anonymous.
func sanitizeUserID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
		if b.Len() == maxUserIDLen {
			break
		}
	}
	return b.String()
}

// validateAudio checks the upload's extension and size bounds. maxBytes and
// minBytes come from configuration.
func validateAudio(filename string, size, minBytes, maxBytes int) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return invalid(400, "unsupported audio format %q; accepted: wav, mp3, amr, m4a, ogg, flac", ext)
	}
	if size < minBytes {
		return invalid(400, "audio file too small (%d bytes, minimum %d)", size, minBytes)
	}
	if size > maxBytes {
		return invalid(413, "audio file too large (%d bytes, maximum %d)", size, maxBytes)
	}
	return nil
}
