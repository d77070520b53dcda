package viz

import (
	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

// Recommend runs the priority cascade and returns the chosen chart kind with
// its key columns. The cascade is deterministic: first satisfied rule wins,
// no scoring, no ties.
//
//  1. forced kind from overrides (adaptation handled by the builder)
//  2. pie:     1 numeric + 1 categorical, rows <= pieMaxRows
//  3. line:    >=1 date + >=1 numeric
//  4. scatter: >=2 numeric, 0 categorical
//  5. heatmap: >=2 categorical, exactly 1 numeric
//  6. funnel:  1 categorical + 1 numeric, categorical values all name
//     funnel stages
//  7. radar:   >=3 numeric + exactly 1 categorical, rows <= radarMaxRows
//  8. bar:     >=1 categorical + >=1 numeric (default fallback)
//  9. bar:     numeric only, x labels synthesized from row index
//  10. table:  no numeric columns, or nothing to draw
//
// Unclassified columns count toward no rule.
func Recommend(ds *Dataset, profiles Profiles, lex *lexicon.Set, overrides *Overrides) Recommendation {
	forcedKind := forcedChartKind(overrides)
	if forcedKind != "" {
		rec := keyColumnsFor(forcedKind, ds, profiles)
		rec.Forced = true
		applyMapping(&rec, overrides)
		return rec
	}

	if ds.Empty() {
		return Recommendation{Kind: KindTable}
	}

	numeric := profiles.ByType(ColumnNumeric)
	date := profiles.ByType(ColumnDate)
	categorical := profiles.ByType(ColumnCategorical)
	rows := len(ds.Rows)

	var rec Recommendation
	switch {
	case len(numeric) == 1 && len(categorical) == 1 && rows <= pieMaxRows:
		rec = Recommendation{
			Kind:           KindPie,
			CategoryColumn: categorical[0],
			YColumns:       numeric[:1],
		}
	case len(date) >= 1 && len(numeric) >= 1:
		rec = Recommendation{
			Kind:     KindLine,
			XColumn:  date[0],
			YColumns: numeric,
		}
	case len(numeric) >= 2 && len(categorical) == 0:
		rec = Recommendation{
			Kind:     KindScatter,
			YColumns: numeric[:2],
		}
	case len(categorical) >= 2 && len(numeric) == 1:
		rec = Recommendation{
			Kind:                 KindHeatmap,
			CategoryColumn:       categorical[0],
			SecondCategoryColumn: categorical[1],
			YColumns:             numeric[:1],
		}
	case len(categorical) == 1 && len(numeric) == 1 && isFunnelColumn(ds, categorical[0], lex):
		rec = Recommendation{
			Kind:           KindFunnel,
			CategoryColumn: categorical[0],
			YColumns:       numeric[:1],
		}
	case len(numeric) >= 3 && len(categorical) == 1 && rows <= radarMaxRows:
		rec = Recommendation{
			Kind:           KindRadar,
			CategoryColumn: categorical[0],
			YColumns:       numeric,
		}
	case len(categorical) >= 1 && len(numeric) >= 1:
		rec = Recommendation{
			Kind:     KindBar,
			XColumn:  categorical[0],
			YColumns: numeric,
		}
	case len(numeric) >= 1:
		// Numeric-only table: x labels come from the row index.
		rec = Recommendation{
			Kind:     KindBar,
			YColumns: numeric,
		}
	default:
		rec = Recommendation{Kind: KindTable}
	}

	applyMapping(&rec, overrides)
	return rec
}

// forcedChartKind returns the caller-forced kind, or "" when the cascade
// should decide. Unknown kind names are ignored rather than failed.
func forcedChartKind(overrides *Overrides) ChartKind {
	if overrides == nil || overrides.ChartType == "" {
		return ""
	}
	if !IsValidKind(overrides.ChartType) {
		return ""
	}
	return ChartKind(overrides.ChartType)
}

// keyColumnsFor selects the natural key columns for a known target kind.
// The funnel rule is value-independent here: a forced funnel does not demand
// stage vocabulary, only the column shape.
func keyColumnsFor(kind ChartKind, ds *Dataset, profiles Profiles) Recommendation {
	numeric := profiles.ByType(ColumnNumeric)
	date := profiles.ByType(ColumnDate)
	categorical := profiles.ByType(ColumnCategorical)

	rec := Recommendation{Kind: kind}
	switch kind {
	case KindLine, KindArea:
		if len(date) > 0 {
			rec.XColumn = date[0]
		} else if len(categorical) > 0 {
			rec.XColumn = categorical[0]
		}
		rec.YColumns = numeric
	case KindBar:
		if len(categorical) > 0 {
			rec.XColumn = categorical[0]
		} else if len(date) > 0 {
			rec.XColumn = date[0]
		}
		rec.YColumns = numeric
	case KindPie, KindFunnel:
		if len(categorical) > 0 {
			rec.CategoryColumn = categorical[0]
		}
		if len(numeric) > 0 {
			rec.YColumns = numeric[:1]
		}
	case KindTreemap, KindSunburst:
		if len(categorical) > 0 {
			rec.CategoryColumn = categorical[0]
		}
		if len(categorical) > 1 {
			rec.SecondCategoryColumn = categorical[1]
		}
		if len(numeric) > 0 {
			rec.YColumns = numeric[:1]
		}
	case KindScatter:
		if len(numeric) >= 2 {
			rec.YColumns = numeric[:2]
		} else {
			rec.YColumns = numeric
		}
	case KindRadar:
		if len(categorical) > 0 {
			rec.CategoryColumn = categorical[0]
		}
		rec.YColumns = numeric
	case KindHeatmap:
		if len(categorical) > 0 {
			rec.CategoryColumn = categorical[0]
		}
		if len(categorical) > 1 {
			rec.SecondCategoryColumn = categorical[1]
		}
		if len(numeric) > 0 {
			rec.YColumns = numeric[:1]
		}
	case KindGauge:
		if len(numeric) > 0 {
			rec.YColumns = numeric[:1]
		}
	case KindSankey:
		if len(categorical) > 0 {
			rec.CategoryColumn = categorical[0]
		}
		if len(categorical) > 1 {
			rec.SecondCategoryColumn = categorical[1]
		}
		if len(numeric) > 0 {
			rec.YColumns = numeric[:1]
		}
	case KindTable:
		// no key columns
	}
	return rec
}

// applyMapping overlays explicit data_mapping overrides on the auto-detected
// key columns.
func applyMapping(rec *Recommendation, overrides *Overrides) {
	if overrides == nil || overrides.DataMapping == nil {
		return
	}
	m := overrides.DataMapping
	if m.XColumn != "" {
		rec.XColumn = m.XColumn
	}
	if len(m.YColumns) > 0 {
		rec.YColumns = append([]string(nil), m.YColumns...)
	}
	if m.CategoryColumn != "" {
		rec.CategoryColumn = m.CategoryColumn
	}
}

// isFunnelColumn reports whether every distinct value of the column names a
// funnel stage. The scan is bounded by the display cap; an all-null column
// never qualifies.
func isFunnelColumn(ds *Dataset, column string, lex *lexicon.Set) bool {
	var values []string
	seen := make(map[string]bool)
	for i, row := range ds.Rows {
		if i >= displayRowCap {
			break
		}
		s, ok := row[column].(string)
		if !ok || s == "" {
			continue
		}
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	return lex.AllFunnelStages(values)
}
