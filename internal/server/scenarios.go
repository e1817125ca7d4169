package server

import (
	"errors"
	"net/http"

	"github.com/kaiwalab/kaiwa/internal/scenario"
)

// scenarioBody wraps a single scenario the way clients expect it.
type scenarioBody struct {
	Scenario scenario.Scenario `json:"scenario"`
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
}

// scenarioListBody wraps a category listing.
type scenarioListBody struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
	Success   bool                `json:"success"`
}

const scenarioFetched = "シナリオを取得しました"

// handleRandomScenario serves GET /api/scenarios/random. Only conversation
// entry points (single-chapter or chapter 1) are eligible.
func (s *Server) handleRandomScenario(w http.ResponseWriter, _ *http.Request) {
	sc, err := s.catalog.Random()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no scenarios available")
		return
	}
	writeJSON(w, http.StatusOK, scenarioBody{Scenario: sc, Success: true, Message: scenarioFetched})
}

// handleScenarioByID serves GET /api/scenarios/{id}. Any chapter can be
// fetched directly.
func (s *Server) handleScenarioByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := s.catalog.ByID(id)
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, "scenario lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, scenarioBody{Scenario: sc, Success: true, Message: scenarioFetched})
}

// handleScenarios serves GET /api/scenarios?category=. Without a category it
// lists the whole catalog.
func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	var list []scenario.Scenario
	if category == "" {
		list = s.catalog.All()
	} else {
		list = s.catalog.ByCategory(category)
	}
	if list == nil {
		list = []scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarioListBody{Scenarios: list, Success: true})
}
