package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  listen_addr: ":9000"
  log_level: debug
  cors_origins: ["https://app.example.com"]
  upload_dir: /tmp/kaiwa-audio
upload:
  max_size_mb: 5
  min_size_bytes: 2048
pipeline:
  timeout: 30s
  hard_failure_mode: error
scenarios:
  catalog_path: /etc/kaiwa/scenarios.yaml
capabilities:
  stt:
    credentials_file: /etc/kaiwa/gcp.json
    language: ja-JP
    sample_rate: 16000
  tts:
    credentials_file: /etc/kaiwa/gcp.json
    voice: ja-JP-Wavenet-B
    speaking_rate: 0.9
  assessment:
    azure_key: secret
    azure_region: japaneast
  llm:
    provider: gemini
    api_key: secret
    model: gemini-2.5-flash
`

func TestLoadFromReaderValid(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Pipeline.Timeout != Duration(30*time.Second) {
		t.Errorf("Timeout = %s", cfg.Pipeline.Timeout)
	}
	if cfg.Pipeline.HardFailureMode != HardFailureError {
		t.Errorf("HardFailureMode = %q", cfg.Pipeline.HardFailureMode)
	}
	if cfg.Upload.MaxSizeMB != 5 || cfg.Upload.MinSizeBytes != 2048 {
		t.Errorf("Upload = %+v", cfg.Upload)
	}
	if cfg.Capabilities.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %q", cfg.Capabilities.LLM.Provider)
	}
}

func TestLoadFromReaderDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromReader(strings.NewReader("server: {}\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want default", cfg.Server.ListenAddr)
	}
	if cfg.Server.UploadDir != DefaultUploadDir {
		t.Errorf("UploadDir = %q, want default", cfg.Server.UploadDir)
	}
	if cfg.Upload.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("MaxSizeMB = %d, want %d", cfg.Upload.MaxSizeMB, DefaultMaxSizeMB)
	}
	if cfg.Upload.MinSizeBytes != DefaultMinSizeBytes {
		t.Errorf("MinSizeBytes = %d, want %d", cfg.Upload.MinSizeBytes, DefaultMinSizeBytes)
	}
	if cfg.Pipeline.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Pipeline.Timeout, DefaultTimeout)
	}
	if cfg.Pipeline.HardFailureMode != HardFailureFallback {
		t.Errorf("HardFailureMode = %q, want fallback", cfg.Pipeline.HardFailureMode)
	}
	if !slices.Equal(cfg.Capabilities.STT.AltLanguages, DefaultAltLanguages) {
		t.Errorf("AltLanguages = %v, want %v", cfg.Capabilities.STT.AltLanguages, DefaultAltLanguages)
	}
}

func TestAltLanguagesOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromReader(strings.NewReader("capabilities:\n  stt:\n    alt_languages: [en-US, ko-KR]\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if !slices.Equal(cfg.Capabilities.STT.AltLanguages, []string{"en-US", "ko-KR"}) {
		t.Errorf("AltLanguages = %v, want explicit list kept", cfg.Capabilities.STT.AltLanguages)
	}

	// An explicit empty list disables alternatives rather than falling back
	// to the default.
	cfg, err = LoadFromReader(strings.NewReader("capabilities:\n  stt:\n    alt_languages: []\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if len(cfg.Capabilities.STT.AltLanguages) != 0 || cfg.Capabilities.STT.AltLanguages == nil {
		t.Errorf("AltLanguages = %#v, want empty non-nil slice", cfg.Capabilities.STT.AltLanguages)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	_, err := LoadFromReader(strings.NewReader("server:\n  listen_port: 9000\n"))
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		yaml string
	}{
		{"bad log level", "server:\n  log_level: bananas\n"},
		{"bad hard failure mode", "pipeline:\n  hard_failure_mode: panic\n"},
		{"bad llm provider", "capabilities:\n  llm:\n    provider: skynet\n"},
		{"bad speaking rate", "capabilities:\n  tts:\n    speaking_rate: 9.0\n"},
		{"min exceeds max", "upload:\n  max_size_mb: 1\n  min_size_bytes: 2000000\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadFromReader(strings.NewReader(tc.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateJoinsMultipleErrors(t *testing.T) {
	t.Parallel()
	doc := "server:\n  log_level: bananas\npipeline:\n  hard_failure_mode: panic\n"
	_, err := LoadFromReader(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "log_level") || !strings.Contains(msg, "hard_failure_mode") {
		t.Errorf("error should list both failures, got %q", msg)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("KAIWA_TEST_AZURE_KEY", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "capabilities:\n  assessment:\n    azure_key: ${KAIWA_TEST_AZURE_KEY}\n    azure_region: japaneast\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Capabilities.Assessment.AzureKey != "from-env" {
		t.Errorf("AzureKey = %q, want expanded env value", cfg.Capabilities.Assessment.AzureKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load("/nonexistent/kaiwa.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
