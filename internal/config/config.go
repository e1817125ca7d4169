// Package config provides the configuration schema and loader for the Kaiwa
// evaluation server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "60s"
// or "2m" via time.ParseDuration.
type Duration time.Duration

var _ yaml.Unmarshaler = (*Duration)(nil)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// LogLevel controls log verbosity for the Kaiwa server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// HardFailureMode selects what the API returns when a hard pipeline stage
// fails.
type HardFailureMode string

const (
	// HardFailureFallback returns a placeholder evaluation with HTTP 200.
	HardFailureFallback HardFailureMode = "fallback"

	// HardFailureError surfaces 503/500 instead.
	HardFailureError HardFailureMode = "error"
)

// IsValid reports whether m is a recognised mode.
func (m HardFailureMode) IsValid() bool {
	return m == HardFailureFallback || m == HardFailureError
}

// Config is the root configuration structure for Kaiwa.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Upload       UploadConfig       `yaml:"upload"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Scenarios    ScenariosConfig    `yaml:"scenarios"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// CORSOrigins lists allowed CORS origins. "*" allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`

	// UploadDir is where synthesized reply audio files are written and
	// served from.
	UploadDir string `yaml:"upload_dir"`
}

// UploadConfig bounds accepted audio uploads.
type UploadConfig struct {
	// MaxSizeMB is the maximum accepted audio file size in megabytes.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MinSizeBytes is the minimum accepted audio file size in bytes.
	// Anything smaller is assumed to be a truncated or empty recording.
	MinSizeBytes int `yaml:"min_size_bytes"`
}

// PipelineConfig tunes the interaction pipeline.
type PipelineConfig struct {
	// Timeout is the per-request processing deadline.
	Timeout Duration `yaml:"timeout"`

	// HardFailureMode selects the hard-stage failure policy.
	HardFailureMode HardFailureMode `yaml:"hard_failure_mode"`
}

// ScenariosConfig points at the scenario catalog.
type ScenariosConfig struct {
	// CatalogPath is a YAML catalog file. Empty uses the embedded default
	// catalog.
	CatalogPath string `yaml:"catalog_path"`
}

// CapabilitiesConfig holds the credentials and tuning for each external
// capability. Empty credentials leave that capability unconfigured; the
// pipeline then degrades or falls back according to the stage's policy.
type CapabilitiesConfig struct {
	STT        STTConfig        `yaml:"stt"`
	TTS        TTSConfig        `yaml:"tts"`
	Assessment AssessmentConfig `yaml:"assessment"`
	LLM        LLMConfig        `yaml:"llm"`
}

// STTConfig configures Google Cloud Speech-to-Text.
type STTConfig struct {
	// CredentialsFile is a Google service account JSON file. Empty leaves
	// speech recognition unconfigured.
	CredentialsFile string `yaml:"credentials_file"`

	// Language is the primary recognition language (default "ja-JP").
	Language string `yaml:"language"`

	// AltLanguages are additional candidate languages the recognizer may
	// fall back to for mixed-language utterances. Defaults to ["en-US"];
	// an explicit empty list disables alternatives.
	AltLanguages []string `yaml:"alt_languages"`

	// SampleRate is the audio sample rate in Hz (default 16000).
	SampleRate int `yaml:"sample_rate"`
}

// TTSConfig configures Google Cloud Text-to-Speech.
type TTSConfig struct {
	// CredentialsFile is a Google service account JSON file. Empty leaves
	// speech synthesis unconfigured.
	CredentialsFile string `yaml:"credentials_file"`

	// Voice is the synthesis voice name (default "ja-JP-Wavenet-A").
	Voice string `yaml:"voice"`

	// SpeakingRate adjusts playback speed; 1.0 is normal.
	SpeakingRate float64 `yaml:"speaking_rate"`
}

// AssessmentConfig configures Azure pronunciation assessment.
type AssessmentConfig struct {
	// AzureKey is the Azure Speech subscription key.
	AzureKey string `yaml:"azure_key"`

	// AzureRegion is the Azure Speech region (e.g., "japaneast").
	AzureRegion string `yaml:"azure_region"`

	// Language is the assessment language (default "ja-JP").
	Language string `yaml:"language"`
}

// LLMConfig configures the LLM backend shared by correction, evaluation and
// reply generation.
type LLMConfig struct {
	// Provider selects the backend (e.g., "gemini", "openai", "anthropic",
	// "ollama", "mistral").
	Provider string `yaml:"provider"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider
	// (e.g., "gemini-2.5-flash").
	Model string `yaml:"model"`
}
