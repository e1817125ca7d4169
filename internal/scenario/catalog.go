package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultCatalog []byte

// ErrNotFound is returned when an id is absent from the catalog.
var ErrNotFound = errors.New("scenario not found")

// ErrEmptyCatalog is returned when a selection is requested from a catalog
// with no scenarios.
var ErrEmptyCatalog = errors.New("scenario catalog is empty")

// catalogFile mirrors the YAML document layout.
type catalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Catalog is the loaded scenario set. Read-only after construction; safe for
// concurrent use.
type Catalog struct {
	scenarios []Scenario
	byID      map[string]Scenario
	logger    *slog.Logger
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultCatalog), logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario catalog: %w", err)
	}
	defer f.Close()
	c, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parse scenario catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		scenarios: file.Scenarios,
		byID:      make(map[string]Scenario, len(file.Scenarios)),
		logger:    logger,
	}
	var errs []error
	for _, s := range file.Scenarios {
		if err := s.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate scenario id %q", s.ID))
			continue
		}
		c.byID[s.ID] = s
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of scenarios in the catalog.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}

// ByID looks up a scenario regardless of chapter.
func (c *Catalog) ByID(id string) (Scenario, error) {
	s, ok := c.byID[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// All returns every scenario in catalog order. The returned slice is a copy.
func (c *Catalog) All() []Scenario {
	out := make([]Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// ByCategory returns all scenarios of the given category, in catalog order.
func (c *Catalog) ByCategory(category string) []Scenario {
	var out []Scenario
	for _, s := range c.scenarios {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Random picks a conversation entry point at random: only single-chapter
// scenarios and explicit first chapters are eligible. When no scenario
// qualifies, the whole catalog is used instead.
func (c *Catalog) Random() (Scenario, error) {
	if len(c.scenarios) == 0 {
		return Scenario{}, ErrEmptyCatalog
	}

	pool := make([]Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		if s.FirstChapter() {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		c.logger.Warn("no first-chapter scenarios in catalog, selecting from all")
		pool = c.scenarios
	}
	return pool[rand.IntN(len(pool))], nil
}

// Context returns the situation text for an id. Unknown ids and scenarios
// without situation text fall back to a generic context; the fallback is
// logged because it usually means a catalog data-entry error.
func (c *Catalog) Context(id string) string {
	s, ok := c.byID[id]
	if !ok {
		c.logger.Warn("scenario context lookup missed, using generic context", "scenario_id", id)
		return genericContext
	}
	if s.Context == "" {
		c.logger.Warn("scenario has no situation text, using generic context", "scenario_id", id)
		return genericContext
	}
	return s.Context
}
