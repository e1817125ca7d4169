package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/kaiwalab/kaiwa/pkg/capability"
)

// handleInteraction serves POST /api/interactions. The multipart form must
// carry scenario_id, an audio_file, and optionally user_id. All validation
// happens here, before any capability is invoked.
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Upload.MaxSizeMB)*1024*1024 + 1024*1024 // form overhead headroom
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	scenarioID := r.FormValue("scenario_id")
	if err := validateScenarioID(scenarioID); err != nil {
		writeValidationError(w, err)
		return
	}
	userID := sanitizeUserID(r.FormValue("user_id"))

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio_file")
		return
	}

	if err := validateAudio(header.Filename, len(audio), s.cfg.Upload.MinSizeBytes, s.cfg.Upload.MaxSizeMB*1024*1024); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := s.orch.Process(r.Context(), scenarioID, audio, header.Filename, userID)
	if err != nil {
		// Only reachable under the error-on-hard-failure policy.
		switch {
		case capability.IsUnavailable(err):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeValidationError maps a validator error to its HTTP response. Anything
// that is not a *validationError is a programming error and reported as 500.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validationError
	if !errors.As(err, &verr) {
		writeError(w, http.StatusInternalServerError, "internal validation failure")
		return
	}
	writeError(w, verr.status, verr.msg)
}
