package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vizorhq/vizor-core/internal/models"
	"github.com/vizorhq/vizor-core/internal/monitoring"
	"github.com/vizorhq/vizor-core/internal/tracing"
	"github.com/vizorhq/vizor-core/internal/viz"
	"github.com/vizorhq/vizor-core/pkg/cache"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

// RenderService fronts the pure viz engine with render-result memoization,
// metrics, and logging. The engine itself stays deterministic and cache-free;
// everything stateful lives here.
type RenderService struct {
	engine *viz.Engine
	cache  cache.ValkeyCluster
	logger logger.Logger
	ttl    time.Duration
}

func NewRenderService(engine *viz.Engine, valkeyCache cache.ValkeyCluster, log logger.Logger, cacheTTL time.Duration) *RenderService {
	return &RenderService{
		engine: engine,
		cache:  valkeyCache,
		logger: log,
		ttl:    cacheTTL,
	}
}

// Engine exposes the wrapped engine for handlers that need lexicon or
// palette introspection.
func (s *RenderService) Engine() *viz.Engine { return s.engine }

// Render runs the full pipeline, consulting the render cache first unless the
// caller asked to bypass it. Identical (payload, overrides) pairs share one
// cache entry.
func (s *RenderService) Render(ctx context.Context, req *models.RenderRequest, bypassCache bool) (*models.RenderResponse, error) {
	key, err := renderCacheKey(req.Data, req.Overrides)
	if err != nil {
		return nil, fmt.Errorf("compute render cache key: %w", err)
	}

	if s.cacheEnabled() && !bypassCache {
		if cached, err := s.cache.GetCachedRenderResult(ctx, key); err == nil {
			var resp models.RenderResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				resp.Cached = true
				return &resp, nil
			}
			s.logger.Warn("Discarding undecodable render cache entry", "key", key, "error", err)
		}
	}

	finishSpan := s.startRenderSpan(ctx, len(req.Data))

	start := time.Now()
	out := s.engine.Render(req.Data, req.Overrides)
	elapsed := time.Since(start)

	s.recordOutcome(out, elapsed)
	finishSpan(out, elapsed)

	resp := &models.RenderResponse{
		State:          out.State,
		Spec:           out.Spec,
		Dataset:        out.Dataset,
		Profiles:       out.Profiles,
		Recommendation: out.Recommendation,
		ErrorMessage:   out.ErrorMessage,
		DurationMs:     elapsed.Milliseconds(),
	}

	if s.cacheEnabled() {
		if err := s.cache.CacheRenderResult(ctx, key, resp, s.ttl); err != nil {
			s.logger.Warn("Failed to cache render result", "key", key, "error", err)
		}
	}

	return resp, nil
}

// Recommend runs normalize+analyze+recommend without building a spec.
func (s *RenderService) Recommend(ctx context.Context, req *models.RecommendRequest) (*models.RecommendResponse, error) {
	ds := s.engine.Normalize(req.Data)
	if ds.Empty() {
		return &models.RecommendResponse{
			Recommendation: viz.Recommendation{Kind: viz.KindTable},
		}, nil
	}

	profiles := s.engine.Analyze(ds)
	rec := s.engine.Recommend(ds, profiles, req.Overrides)
	monitoring.RecordRecommendation(string(rec.Kind), rec.Forced)

	return &models.RecommendResponse{
		Recommendation: rec,
		Profiles:       profiles,
		RowCount:       len(ds.Rows),
	}, nil
}

// Analyze reports per-column semantic types for a raw payload.
func (s *RenderService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	ds := s.engine.Normalize(req.Data)
	profiles := s.engine.Analyze(ds)

	resp := &models.AnalyzeResponse{
		Profiles: profiles,
		RowCount: len(ds.Rows),
	}
	if ds != nil {
		resp.Columns = ds.Columns
	}
	return resp, nil
}

// Normalize converts a raw payload into the canonical dataset.
func (s *RenderService) Normalize(ctx context.Context, req *models.NormalizeRequest) (*models.NormalizeResponse, error) {
	ds := s.engine.Normalize(req.Data)
	return &models.NormalizeResponse{
		Dataset:  ds,
		RowCount: len(ds.Rows),
	}, nil
}

// Export renders the payload and serializes the requested artifact. It
// returns the content type alongside the body.
func (s *RenderService) Export(ctx context.Context, req *models.ExportRequest) (string, []byte, error) {
	renderReq := &models.RenderRequest{Data: req.Data, Overrides: req.Overrides}
	resp, err := s.Render(ctx, renderReq, false)
	if err != nil {
		return "", nil, err
	}

	format := req.Format
	if format == "" {
		format = models.ExportFormatSpec
	}

	switch format {
	case models.ExportFormatSpec:
		body, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", nil, err
		}
		return "application/json", body, nil

	case models.ExportFormatDataset:
		if resp.Dataset == nil {
			return "", nil, fmt.Errorf("no dataset available for export")
		}
		body, err := json.MarshalIndent(resp.Dataset, "", "  ")
		if err != nil {
			return "", nil, err
		}
		return "application/json", body, nil

	case models.ExportFormatCSV:
		if resp.Dataset == nil {
			return "", nil, fmt.Errorf("no dataset available for export")
		}
		body, err := datasetCSV(resp.Dataset)
		if err != nil {
			return "", nil, err
		}
		return "text/csv", body, nil

	default:
		return "", nil, fmt.Errorf("invalid format %q", format)
	}
}

func (s *RenderService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *RenderService) recordOutcome(out viz.RenderOutput, elapsed time.Duration) {
	kind := "none"
	if out.Recommendation != nil {
		kind = string(out.Recommendation.Kind)
		monitoring.RecordRecommendation(kind, out.Recommendation.Forced)
	}

	switch out.State {
	case viz.StateError:
		monitoring.RecordFallback("upstream_error")
		monitoring.RecordRender(kind, elapsed, false)
	case viz.StateTable:
		// A table state with a non-table recommendation means the builder
		// could not satisfy the chosen kind.
		if out.Recommendation != nil && out.Recommendation.Kind != viz.KindTable {
			monitoring.RecordFallback("unsatisfiable")
		}
		monitoring.RecordRender(kind, elapsed, true)
	default:
		monitoring.RecordRender(kind, elapsed, true)
	}
}

// startRenderSpan opens a render span when tracing is on. The returned
// function records the outcome and ends the span; it is a no-op otherwise.
func (s *RenderService) startRenderSpan(ctx context.Context, payloadBytes int) func(viz.RenderOutput, time.Duration) {
	rt := tracing.GetGlobalTracer()
	if rt == nil {
		return func(viz.RenderOutput, time.Duration) {}
	}

	requestID, _ := ctx.Value("request_id").(string)
	_, span := rt.StartRenderSpan(ctx, requestID, payloadBytes)

	return func(out viz.RenderOutput, elapsed time.Duration) {
		kind := "none"
		if out.Recommendation != nil {
			kind = string(out.Recommendation.Kind)
		}
		rowCount := 0
		if out.Dataset != nil {
			rowCount = len(out.Dataset.Rows)
		}
		rt.RecordRenderMetrics(span, kind, string(out.State), elapsed, rowCount, out.State != viz.StateError)
		span.End()
	}
}

// renderCacheKey hashes the payload plus the override set. Overrides are
// serialized with encoding/json, which keeps struct field order stable across
// calls.
func renderCacheKey(data json.RawMessage, overrides *viz.Overrides) (string, error) {
	h := sha256.New()
	h.Write(data)
	if overrides != nil {
		b, err := json.Marshal(overrides)
		if err != nil {
			return "", err
		}
		h.Write([]byte{0})
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// datasetCSV writes the canonical dataset as CSV with a header row. Numeric
// cells use the shortest round-trippable representation; nil cells stay
// empty.
func datasetCSV(ds *viz.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ds.Columns); err != nil {
		return nil, err
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			switch v := row[col].(type) {
			case nil:
				record[i] = ""
			case float64:
				record[i] = strconv.FormatFloat(v, 'g', -1, 64)
			case string:
				record[i] = v
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
