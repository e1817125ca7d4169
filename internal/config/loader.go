package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// validLLMProviders lists the LLM backends the capability layer can build.
var validLLMProviders = []string{"gemini", "openai", "anthropic", "ollama", "mistral"}

// Defaults applied by [Validate] for unset fields.
const (
	DefaultListenAddr   = ":8000"
	DefaultUploadDir    = "uploads/audio"
	DefaultMaxSizeMB    = 10
	DefaultMinSizeBytes = 1024
	DefaultTimeout      = Duration(60 * time.Second)
)

// DefaultAltLanguages is applied when capabilities.stt.alt_languages is
// absent. Learner recordings often mix in English words, so en-US stays on
// as a recognition alternative unless explicitly disabled.
var DefaultAltLanguages = []string{"en-US"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. Environment variable references of the form ${VAR} in the file
// are expanded before decoding, so credentials can stay out of the file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg, err := LoadFromReader(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals. No
// environment expansion is applied here.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values and fills in
// defaults for unset fields. It returns a joined error listing all
// validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = DefaultUploadDir
	}

	// Upload bounds
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = DefaultMaxSizeMB
	} else if cfg.Upload.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("upload.max_size_mb %d must be positive", cfg.Upload.MaxSizeMB))
	}
	if cfg.Upload.MinSizeBytes == 0 {
		cfg.Upload.MinSizeBytes = DefaultMinSizeBytes
	} else if cfg.Upload.MinSizeBytes < 0 {
		errs = append(errs, fmt.Errorf("upload.min_size_bytes %d must be positive", cfg.Upload.MinSizeBytes))
	}
	if cfg.Upload.MaxSizeMB > 0 && cfg.Upload.MinSizeBytes > cfg.Upload.MaxSizeMB*1024*1024 {
		errs = append(errs, fmt.Errorf("upload.min_size_bytes %d exceeds upload.max_size_mb %d", cfg.Upload.MinSizeBytes, cfg.Upload.MaxSizeMB))
	}

	// Pipeline
	if cfg.Pipeline.Timeout == 0 {
		cfg.Pipeline.Timeout = DefaultTimeout
	} else if cfg.Pipeline.Timeout < 0 {
		errs = append(errs, fmt.Errorf("pipeline.timeout %s must be positive", cfg.Pipeline.Timeout))
	}
	if cfg.Pipeline.HardFailureMode == "" {
		cfg.Pipeline.HardFailureMode = HardFailureFallback
	} else if !cfg.Pipeline.HardFailureMode.IsValid() {
		errs = append(errs, fmt.Errorf("pipeline.hard_failure_mode %q is invalid; valid values: fallback, error", cfg.Pipeline.HardFailureMode))
	}

	// Capabilities
	if cfg.Capabilities.LLM.Provider != "" && !slices.Contains(validLLMProviders, cfg.Capabilities.LLM.Provider) {
		errs = append(errs, fmt.Errorf("capabilities.llm.provider %q is invalid; valid values: %v", cfg.Capabilities.LLM.Provider, validLLMProviders))
	}
	if rate := cfg.Capabilities.TTS.SpeakingRate; rate != 0 && (rate < 0.25 || rate > 4.0) {
		errs = append(errs, fmt.Errorf("capabilities.tts.speaking_rate %.2f is out of range [0.25, 4.0]", rate))
	}
	if rate := cfg.Capabilities.STT.SampleRate; rate < 0 {
		errs = append(errs, fmt.Errorf("capabilities.stt.sample_rate %d must be positive", rate))
	}
	if cfg.Capabilities.STT.AltLanguages == nil {
		cfg.Capabilities.STT.AltLanguages = slices.Clone(DefaultAltLanguages)
	}

	// Availability warnings. Missing credentials are not errors: the
	// affected stage degrades or falls back at runtime.
	if cfg.Capabilities.Assessment.AzureKey == "" {
		slog.Warn("capabilities.assessment.azure_key is empty; pronunciation assessment will be unavailable")
	}
	if cfg.Capabilities.LLM.Provider == "" {
		slog.Warn("capabilities.llm.provider is empty; correction, evaluation and reply generation will degrade to defaults")
	}

	return errors.Join(errs...)
}
