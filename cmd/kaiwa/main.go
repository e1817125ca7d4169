// Command kaiwa is the main entry point for the Kaiwa language-learning
// evaluation server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/kaiwalab/kaiwa/internal/config"
	"github.com/kaiwalab/kaiwa/internal/observe"
	"github.com/kaiwalab/kaiwa/internal/pipeline"
	"github.com/kaiwalab/kaiwa/internal/scenario"
	"github.com/kaiwalab/kaiwa/internal/server"
	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
	assessazure "github.com/kaiwalab/kaiwa/pkg/capability/assess/azure"
	"github.com/kaiwalab/kaiwa/pkg/capability/correct"
	correctgemini "github.com/kaiwalab/kaiwa/pkg/capability/correct/gemini"
	"github.com/kaiwalab/kaiwa/pkg/capability/evaluate"
	evaluategemini "github.com/kaiwalab/kaiwa/pkg/capability/evaluate/gemini"
	"github.com/kaiwalab/kaiwa/pkg/capability/reply"
	replygemini "github.com/kaiwalab/kaiwa/pkg/capability/reply/gemini"
	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
	sttgoogle "github.com/kaiwalab/kaiwa/pkg/capability/stt/google"
	"github.com/kaiwalab/kaiwa/pkg/capability/synth"
	synthgoogle "github.com/kaiwalab/kaiwa/pkg/capability/synth/google"
	"github.com/kaiwalab/kaiwa/pkg/capability/unavailable"
	"github.com/kaiwalab/kaiwa/pkg/llm/anyllm"
)

const defaultLLMModel = "gemini-2.5-flash"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "kaiwa: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "kaiwa: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("kaiwa starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Telemetry ─────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "kaiwa",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}

	// ── Capabilities ──────────────────────────────────────────────────────────
	caps, closers, err := buildCapabilities(ctx, cfg)
	if err != nil {
		slog.Error("failed to build capabilities", "err", err)
		return 1
	}
	defer closeAll(closers)

	// ── Scenario catalog ──────────────────────────────────────────────────────
	catalog, err := scenario.Load(cfg.Scenarios.CatalogPath, logger)
	if err != nil {
		slog.Error("failed to load scenario catalog", "err", err)
		return 1
	}
	slog.Info("scenario catalog loaded", "scenarios", catalog.Len(), "path", catalogSource(cfg))

	// ── Pipeline + HTTP server ────────────────────────────────────────────────
	mode := pipeline.FallbackOnHardFailure
	if cfg.Pipeline.HardFailureMode == config.HardFailureError {
		mode = pipeline.ErrorOnHardFailure
	}

	metrics := observe.DefaultMetrics()

	orch := pipeline.New(caps.deps(catalog),
		pipeline.WithHardFailureMode(mode),
		pipeline.WithTimeout(time.Duration(cfg.Pipeline.Timeout)),
		pipeline.WithMetrics(metrics),
		pipeline.WithLogger(logger),
	)

	srv := server.New(cfg, orch, catalog, metrics)
	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, catalog.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := telemetryShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
		return nil
	})

	slog.Info("server ready — press Ctrl+C to shut down", "addr", cfg.Server.ListenAddr)

	if err := g.Wait(); err != nil {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Capability wiring ─────────────────────────────────────────────────────────

// capabilities collects one implementation per pipeline stage. Stages whose
// backend credentials are missing get an unavailable stub, so the pipeline
// degrades or falls back at request time rather than the server refusing to
// start.
type capabilities struct {
	transcriber stt.Transcriber
	corrector   correct.Corrector
	assessor    assess.Assessor
	evaluator   evaluate.Evaluator
	generator   reply.Generator
	synthesizer synth.Synthesizer
}

func (c *capabilities) deps(catalog *scenario.Catalog) pipeline.Deps {
	return pipeline.Deps{
		Transcriber: c.transcriber,
		Corrector:   c.corrector,
		Assessor:    c.assessor,
		Evaluator:   c.evaluator,
		Generator:   c.generator,
		Synthesizer: c.synthesizer,
		Catalog:     catalog,
	}
}

func buildCapabilities(ctx context.Context, cfg *config.Config) (*capabilities, []io.Closer, error) {
	caps := &capabilities{
		transcriber: unavailable.Transcriber{},
		corrector:   unavailable.Corrector{},
		assessor:    unavailable.Assessor{},
		evaluator:   unavailable.Evaluator{},
		generator:   unavailable.Generator{},
		synthesizer: unavailable.Synthesizer{},
	}
	var closers []io.Closer

	// ── Speech recognition (Google Cloud Speech-to-Text) ──────────────────────
	if file := cfg.Capabilities.STT.CredentialsFile; file != "" {
		var opts []sttgoogle.Option
		if lang := cfg.Capabilities.STT.Language; lang != "" {
			opts = append(opts, sttgoogle.WithLanguage(lang))
		}
		if alts := cfg.Capabilities.STT.AltLanguages; len(alts) > 0 {
			opts = append(opts, sttgoogle.WithAlternativeLanguages(alts...))
		}
		if rate := cfg.Capabilities.STT.SampleRate; rate != 0 {
			opts = append(opts, sttgoogle.WithSampleRate(rate))
		}
		t, err := sttgoogle.New(ctx, file, opts...)
		if err != nil {
			return nil, closers, fmt.Errorf("create speech-to-text client: %w", err)
		}
		caps.transcriber = t
		closers = append(closers, t)
		slog.Info("capability ready", "stage", "transcribe", "backend", "google")
	} else {
		slog.Warn("speech-to-text credentials missing; transcription unavailable")
	}

	// ── Pronunciation assessment (Azure Speech) ───────────────────────────────
	if key := cfg.Capabilities.Assessment.AzureKey; key != "" {
		var opts []assessazure.Option
		if lang := cfg.Capabilities.Assessment.Language; lang != "" {
			opts = append(opts, assessazure.WithLanguage(lang))
		}
		a, err := assessazure.New(key, cfg.Capabilities.Assessment.AzureRegion, opts...)
		if err != nil {
			return nil, closers, fmt.Errorf("create pronunciation assessor: %w", err)
		}
		caps.assessor = a
		slog.Info("capability ready", "stage", "assess", "backend", "azure")
	} else {
		slog.Warn("azure speech key missing; pronunciation assessment unavailable")
	}

	// ── LLM-backed stages (correction, evaluation, reply) ─────────────────────
	if name := cfg.Capabilities.LLM.Provider; name != "" {
		model := cfg.Capabilities.LLM.Model
		if model == "" {
			model = defaultLLMModel
		}
		var opts []anyllmlib.Option
		if cfg.Capabilities.LLM.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.Capabilities.LLM.APIKey))
		}
		if cfg.Capabilities.LLM.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.Capabilities.LLM.BaseURL))
		}
		provider, err := anyllm.New(name, model, opts...)
		if err != nil {
			return nil, closers, fmt.Errorf("create llm provider %q: %w", name, err)
		}
		if caps.corrector, err = correctgemini.New(provider); err != nil {
			return nil, closers, fmt.Errorf("create corrector: %w", err)
		}
		if caps.evaluator, err = evaluategemini.New(provider); err != nil {
			return nil, closers, fmt.Errorf("create evaluator: %w", err)
		}
		if caps.generator, err = replygemini.New(provider); err != nil {
			return nil, closers, fmt.Errorf("create reply generator: %w", err)
		}
		slog.Info("capability ready", "stage", "correct/evaluate/reply", "backend", name, "model", model)
	} else {
		slog.Warn("llm provider missing; correction, evaluation and reply generation degrade to defaults")
	}

	// ── Speech synthesis (Google Cloud Text-to-Speech) ────────────────────────
	if file := cfg.Capabilities.TTS.CredentialsFile; file != "" {
		var opts []synthgoogle.Option
		if voice := cfg.Capabilities.TTS.Voice; voice != "" {
			opts = append(opts, synthgoogle.WithVoice(voice))
		}
		if rate := cfg.Capabilities.TTS.SpeakingRate; rate != 0 {
			opts = append(opts, synthgoogle.WithSpeakingRate(rate))
		}
		s, err := synthgoogle.New(ctx, file, cfg.Server.UploadDir, opts...)
		if err != nil {
			return nil, closers, fmt.Errorf("create text-to-speech client: %w", err)
		}
		caps.synthesizer = s
		closers = append(closers, s)
		slog.Info("capability ready", "stage", "synthesize", "backend", "google")
	} else {
		slog.Warn("text-to-speech credentials missing; response audio disabled")
	}

	return caps, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			slog.Warn("capability close error", "err", err)
		}
	}
}

func catalogSource(cfg *config.Config) string {
	if cfg.Scenarios.CatalogPath == "" {
		return "(embedded)"
	}
	return cfg.Scenarios.CatalogPath
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, scenarioCount int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║           Kaiwa — startup summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printBackend("STT", configured(cfg.Capabilities.STT.CredentialsFile != "", "google"))
	printBackend("Assessment", configured(cfg.Capabilities.Assessment.AzureKey != "", "azure"))
	printBackend("LLM", llmSummary(cfg))
	printBackend("TTS", configured(cfg.Capabilities.TTS.CredentialsFile != "", "google"))
	fmt.Printf("║  Scenarios       : %-19d ║\n", scenarioCount)
	fmt.Printf("║  Failure policy  : %-19s ║\n", cfg.Pipeline.HardFailureMode)
	fmt.Printf("║  Listen addr     : %-19s ║\n", cfg.Server.ListenAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printBackend(kind, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

func configured(ok bool, backend string) string {
	if !ok {
		return "(not configured)"
	}
	return backend
}

func llmSummary(cfg *config.Config) string {
	if cfg.Capabilities.LLM.Provider == "" {
		return "(not configured)"
	}
	if cfg.Capabilities.LLM.Model != "" {
		return cfg.Capabilities.LLM.Provider + " / " + cfg.Capabilities.LLM.Model
	}
	return cfg.Capabilities.LLM.Provider
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
