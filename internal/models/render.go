package models

import (
	"encoding/json"
	"fmt"

	"github.com/vizorhq/vizor-core/internal/viz"
)

// RenderRequest is the body for POST /api/v1/render. Data carries the raw
// upstream payload untouched; the engine owns shape detection, so any JSON
// value is accepted here.
type RenderRequest struct {
	Data      json.RawMessage `json:"data"`
	Overrides *viz.Overrides  `json:"overrides,omitempty"`
}

func (r *RenderRequest) Validate() error {
	if len(r.Data) == 0 {
		return fmt.Errorf("data is required")
	}
	if !json.Valid(r.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	if r.Overrides != nil && r.Overrides.ChartType != "" && !viz.IsValidKind(r.Overrides.ChartType) {
		return fmt.Errorf("invalid chart_type %q", r.Overrides.ChartType)
	}
	return nil
}

// RenderResponse wraps the engine output with service-level metadata.
type RenderResponse struct {
	State          viz.RenderState     `json:"state"`
	Spec           *viz.RenderSpec     `json:"spec,omitempty"`
	Dataset        *viz.Dataset        `json:"dataset,omitempty"`
	Profiles       viz.Profiles        `json:"profiles,omitempty"`
	Recommendation *viz.Recommendation `json:"recommendation,omitempty"`
	ErrorMessage   string              `json:"error_message,omitempty"`

	Cached     bool  `json:"cached"`
	DurationMs int64 `json:"duration_ms"`
}

// RecommendRequest is the body for POST /api/v1/recommend.
type RecommendRequest struct {
	Data      json.RawMessage `json:"data"`
	Overrides *viz.Overrides  `json:"overrides,omitempty"`
}

func (r *RecommendRequest) Validate() error {
	req := RenderRequest{Data: r.Data, Overrides: r.Overrides}
	return req.Validate()
}

// RecommendResponse reports the cascade decision without building a spec.
type RecommendResponse struct {
	Recommendation viz.Recommendation `json:"recommendation"`
	Profiles       viz.Profiles       `json:"profiles,omitempty"`
	RowCount       int                `json:"row_count"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Data json.RawMessage `json:"data"`
}

func (r *AnalyzeRequest) Validate() error {
	if len(r.Data) == 0 {
		return fmt.Errorf("data is required")
	}
	if !json.Valid(r.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// AnalyzeResponse reports per-column semantic types.
type AnalyzeResponse struct {
	Columns  []string     `json:"columns"`
	Profiles viz.Profiles `json:"profiles"`
	RowCount int          `json:"row_count"`
}

// NormalizeRequest is the body for POST /api/v1/normalize.
type NormalizeRequest struct {
	Data json.RawMessage `json:"data"`
}

func (r *NormalizeRequest) Validate() error {
	req := AnalyzeRequest{Data: r.Data}
	return req.Validate()
}

// NormalizeResponse returns the canonical dataset for a raw payload.
type NormalizeResponse struct {
	Dataset  *viz.Dataset `json:"dataset"`
	RowCount int          `json:"row_count"`
}

// ExportFormat selects what POST /api/v1/export returns.
type ExportFormat string

const (
	ExportFormatSpec    ExportFormat = "spec"    // resolved RenderSpec JSON
	ExportFormatDataset ExportFormat = "dataset" // canonical dataset JSON
	ExportFormatCSV     ExportFormat = "csv"     // dataset as CSV text
)

// ExportRequest is the body for POST /api/v1/export.
type ExportRequest struct {
	Data      json.RawMessage `json:"data"`
	Overrides *viz.Overrides  `json:"overrides,omitempty"`
	Format    ExportFormat    `json:"format,omitempty"`
}

func (r *ExportRequest) Validate() error {
	req := RenderRequest{Data: r.Data, Overrides: r.Overrides}
	if err := req.Validate(); err != nil {
		return err
	}
	switch r.Format {
	case "", ExportFormatSpec, ExportFormatDataset, ExportFormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid format %q", r.Format)
	}
}

// PaletteInfo describes one named palette for GET /palettes.
type PaletteInfo struct {
	Name    string   `json:"name"`
	Colors  []string `json:"colors"`
	Builtin bool     `json:"builtin"`
}

// LexiconInfo reports the active keyword tables for GET /lexicons.
type LexiconInfo struct {
	DateKeywords []string `json:"date_keywords"`
	FunnelStages []string `json:"funnel_stages"`
	Source       string   `json:"source"` // builtin | file
}
