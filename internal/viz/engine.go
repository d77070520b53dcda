package viz

import (
	"errors"
	"sync/atomic"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

// Engine runs the full normalize -> analyze -> recommend -> build pipeline.
// It carries no per-call state: every Render call is independent, so one
// Engine serves any number of concurrent callers. The lexicon set lives
// behind an atomic pointer so hot-reloads can swap it while renders are in
// flight; each render reads one consistent snapshot.
type Engine struct {
	lexicons atomic.Pointer[lexicon.Set]
	palettes map[string][]string
	logger   logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLexicons replaces the built-in keyword tables.
func WithLexicons(set *lexicon.Set) Option {
	return func(e *Engine) {
		if set != nil {
			e.lexicons.Store(set)
		}
	}
}

// WithPalettes merges custom palettes over the built-ins.
func WithPalettes(palettes map[string][]string) Option {
	return func(e *Engine) {
		e.palettes = palettes
	}
}

// NewEngine builds an engine with the default lexicons and palettes.
func NewEngine(log logger.Logger, opts ...Option) *Engine {
	e := &Engine{logger: log}
	e.lexicons.Store(lexicon.Defaults())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lexicons returns the active keyword tables.
func (e *Engine) Lexicons() *lexicon.Set { return e.lexicons.Load() }

// Palettes returns the custom palette table merged at construction (nil when
// only built-ins are active).
func (e *Engine) Palettes() map[string][]string { return e.palettes }

// SetLexicons swaps the keyword tables, for config hot-reload. The engine
// copies the set, so the caller may keep mutating its own.
func (e *Engine) SetLexicons(set *lexicon.Set) {
	if set != nil {
		e.lexicons.Store(set.Clone())
	}
}

// Normalize converts raw payload JSON into the canonical dataset.
func (e *Engine) Normalize(raw []byte) *Dataset {
	return Normalize(raw)
}

// Analyze classifies the dataset's columns using the active lexicons.
func (e *Engine) Analyze(ds *Dataset) Profiles {
	return Analyze(ds, e.lexicons.Load())
}

// Recommend runs the decision cascade over an analyzed dataset.
func (e *Engine) Recommend(ds *Dataset, profiles Profiles, overrides *Overrides) Recommendation {
	return Recommend(ds, profiles, e.lexicons.Load(), overrides)
}

// Render runs the full pipeline on a raw payload. It never panics and never
// returns an error: every failure mode maps to a RenderOutput state. The
// worst outcome is a plain table or an empty-state display.
func (e *Engine) Render(raw []byte, overrides *Overrides) (out RenderOutput) {
	defer func() {
		// An internal failure must not cross the engine boundary; degrade
		// to the table (or empty) state and keep the dataset if one exists.
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("render pipeline panic recovered", "panic", r)
			}
			if out.Dataset == nil || out.Dataset.Empty() {
				out = RenderOutput{State: StateEmpty, Dataset: emptyDataset()}
			} else {
				out = RenderOutput{State: StateTable, Dataset: out.Dataset, Profiles: out.Profiles}
			}
		}
	}()

	// Upstream error payloads bypass normalization entirely.
	if msg, ok := UpstreamErrorMessage(raw); ok {
		return RenderOutput{State: StateError, ErrorMessage: msg}
	}

	ds := Normalize(raw)
	out.Dataset = ds
	if ds.Empty() {
		out.State = StateEmpty
		return out
	}

	// One lexicon snapshot per render: a hot-reload mid-pipeline must not
	// hand analyze and recommend different tables.
	lex := e.lexicons.Load()
	profiles := Analyze(ds, lex)
	out.Profiles = profiles

	rec := Recommend(ds, profiles, lex, overrides)
	out.Recommendation = &rec

	if rec.Kind == KindTable {
		out.State = StateTable
		return out
	}

	spec, err := BuildSpec(ds, profiles, rec, overrides, e.palettes)
	if err != nil && rec.Forced {
		// Forced kinds get one documented adaptation attempt before the
		// table fallback.
		spec, err = Adapt(ds, profiles, rec.Kind, overrides, e.palettes)
		if err == nil {
			rec.Adapted = true
			out.Recommendation = &rec
		}
	}
	if err != nil {
		if !errors.Is(err, ErrUnsatisfiable) && e.logger != nil {
			e.logger.Error("chart build failed", "kind", rec.Kind, "error", err)
		}
		out.State = StateTable
		return out
	}

	out.State = StateChart
	out.Spec = spec
	return out
}
