// Package server provides the HTTP API of the Kaiwa evaluation service.
//
// Routes:
//
//	POST /api/interactions       — process one audio interaction
//	GET  /api/scenarios/random   — random conversation entry point
//	GET  /api/scenarios/{id}     — scenario by id
//	GET  /api/scenarios          — list, optionally by ?category=
//	GET  /uploads/audio/...      — synthesized reply audio files
//	GET  /healthz, /readyz       — probes
//	GET  /metrics                — Prometheus scrape endpoint
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kaiwalab/kaiwa/internal/config"
	"github.com/kaiwalab/kaiwa/internal/health"
	"github.com/kaiwalab/kaiwa/internal/observe"
	"github.com/kaiwalab/kaiwa/internal/pipeline"
	"github.com/kaiwalab/kaiwa/internal/scenario"
)

// Server wires the orchestrator and scenario catalog into an HTTP handler.
type Server struct {
	cfg     *config.Config
	orch    *pipeline.Orchestrator
	catalog *scenario.Catalog
	handler http.Handler
}

// New builds the server and its route table.
func New(cfg *config.Config, orch *pipeline.Orchestrator, catalog *scenario.Catalog, metrics *observe.Metrics) *Server {
	s := &Server{cfg: cfg, orch: orch, catalog: catalog}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/interactions", s.handleInteraction)
	mux.HandleFunc("GET /api/scenarios/random", s.handleRandomScenario)
	mux.HandleFunc("GET /api/scenarios/{id}", s.handleScenarioByID)
	mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Synthesized reply audio.
	mux.Handle("GET /uploads/audio/",
		http.StripPrefix("/uploads/audio/", http.FileServer(http.Dir(cfg.Server.UploadDir))))

	// Probes and metrics bypass the CORS middleware on purpose; they are not
	// browser-facing.
	probes := health.New(health.Checker{
		Name: "scenario_catalog",
		Check: func(context.Context) error {
			_, err := catalog.Random()
			return err
		},
	})
	probes.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	handler = corsMiddleware(cfg.Server.CORSOrigins)(handler)
	handler = observe.Middleware(metrics)(handler)
	s.handler = handler
	return s
}

// Handler returns the fully wrapped route handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// rootBody is the service banner served at /.
type rootBody struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootBody{Service: "kaiwa", Status: "ok"})
}
