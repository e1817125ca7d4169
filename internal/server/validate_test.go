package server

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteValidationError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeValidationError(rec, invalid(413, "too large"))
	if rec.Code != 413 {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "too large") {
		t.Errorf("body = %q, want validator message", rec.Body.String())
	}

	// Errors of any other type must not panic and must surface as 500.
	rec = httptest.NewRecorder()
	writeValidationError(rec, errors.New("unexpected"))
	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestSanitizeUserID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "user-123", "user-123"},
		{"underscore", "user_abc", "user_abc"},
		{"strips path traversal", "../../etc/passwd", "etcpasswd"},
		{"strips spaces and symbols", "user 123!@#", "user123"},
		{"strips unicode", "ユーザーabc", "abc"},
		{"empty", "", ""},
		{"only invalid", "!!!", ""},
		{"caps length", strings.Repeat("a", 100), strings.Repeat("a", maxUserIDLen)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeUserID(tc.in); got != tc.want {
				t.Errorf("sanitizeUserID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateAudio(t *testing.T) {
	t.Parallel()
	const (
		minBytes = 1024
		maxBytes = 10 * 1024 * 1024
	)
	cases := []struct {
		name       string
		filename   string
		size       int
		wantStatus int // 0 means valid
	}{
		{"wav ok", "clip.wav", 4096, 0},
		{"mp3 ok", "clip.mp3", 4096, 0},
		{"uppercase extension", "CLIP.WAV", 4096, 0},
		{"flac ok", "clip.flac", 4096, 0},
		{"pdf rejected", "clip.pdf", 4096, 400},
		{"no extension", "clip", 4096, 400},
		{"too small", "clip.wav", 500, 400},
		{"at minimum", "clip.wav", minBytes, 0},
		{"at maximum", "clip.wav", maxBytes, 0},
		{"too large", "clip.wav", maxBytes + 1, 413},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateAudio(tc.filename, tc.size, minBytes, maxBytes)
			if tc.wantStatus == 0 {
				if err != nil {
					t.Fatalf("validateAudio: %v", err)
				}
				return
			}
			verr, ok := err.(*validationError)
			if !ok {
				t.Fatalf("err = %v, want *validationError", err)
			}
			if verr.status != tc.wantStatus {
				t.Errorf("status = %d, want %d", verr.status, tc.wantStatus)
			}
		})
	}
}

func TestValidateScenarioID(t *testing.T) {
	t.Parallel()
	if err := validateScenarioID("scenario_001"); err != nil {
		t.Errorf("scenario_001: %v", err)
	}
	if err := validateScenarioID("scenario_001_2"); err != nil {
		t.Errorf("scenario_001_2: %v", err)
	}
	for _, id := range []string{"", "wallet", "scenario_1", "scenario_0012", "scenario_001_", "SCENARIO_001"} {
		if err := validateScenarioID(id); err == nil {
			t.Errorf("validateScenarioID(%q) = nil, want error", id)
		}
	}
}
