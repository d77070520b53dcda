package viz

import (
	"fmt"
)

// barMaxWidth caps rendered bar width in pixels so sparse datasets do not
// produce screen-wide bars.
const barMaxWidth = 48

// areaFillOpacity is the gradient strength the area variant adds over line.
const areaFillOpacity = 0.35

// buildBar reshapes into one bar series per numeric column. An empty
// XColumn is the uncategorized variant: x labels are synthesized from the
// row index.
func buildBar(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: bar needs at least one numeric column", ErrUnsatisfiable)
	}

	var categories []string
	if rec.XColumn != "" {
		categories = make([]string, 0, len(rows))
		for _, row := range rows {
			categories = append(categories, cellString(row[rec.XColumn]))
		}
	} else {
		categories = indexLabels(len(rows))
	}

	spec := baseSpec(KindBar, overrides, customPalettes)
	attachAxes(spec, categories, overrides)

	_, stack, label, _ := seriesFlags(overrides)
	for _, y := range rec.YColumns {
		s := Series{
			Name:        y,
			Type:        KindBar,
			Values:      columnValues(rows, y),
			Stack:       stack,
			ShowLabel:   label,
			BarMaxWidth: barMaxWidth,
		}
		spec.Series = append(spec.Series, s)
	}
	legendEntries(spec)
	return spec, nil
}

// buildLineArea reshapes into one line (or area) series per numeric column.
// When the x column is date-typed the rows are sorted ascending first so the
// category axis reads chronologically.
func buildLineArea(kind ChartKind, rows []Row, profiles Profiles, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if rec.XColumn == "" {
		return nil, fmt.Errorf("%w: %s needs an x column", ErrUnsatisfiable, kind)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one numeric column", ErrUnsatisfiable, kind)
	}

	if profiles.TypeOf(rec.XColumn) == ColumnDate {
		rows = sortRowsByColumnAsc(rows, rec.XColumn)
	}

	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, cellString(row[rec.XColumn]))
	}

	spec := baseSpec(kind, overrides, customPalettes)
	attachAxes(spec, categories, overrides)

	smooth, stack, label, _ := seriesFlags(overrides)
	for _, y := range rec.YColumns {
		s := Series{
			Name:      y,
			Type:      kind,
			Values:    columnValues(rows, y),
			Smooth:    smooth,
			Stack:     stack,
			ShowLabel: label,
		}
		if kind == KindArea {
			s.AreaOpacity = areaFillOpacity
		}
		spec.Series = append(spec.Series, s)
	}
	legendEntries(spec)
	return spec, nil
}

// buildScatter uses only the first two numeric columns as (x, y) pairs;
// additional numeric columns are dropped: the surface draws two dimensions
// and the recommender documents the truncation.
func buildScatter(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if len(rec.YColumns) < 2 {
		return nil, fmt.Errorf("%w: scatter needs two numeric columns", ErrUnsatisfiable)
	}
	xCol, yCol := rec.YColumns[0], rec.YColumns[1]

	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		x, okX := cellFloat(row[xCol])
		y, okY := cellFloat(row[yCol])
		if !okX || !okY {
			continue // rows with unparsable coordinates drop out
		}
		points = append(points, Point{X: x, Y: y})
	}

	spec := baseSpec(KindScatter, overrides, customPalettes)
	showGrid := true
	var xName, yName string
	if overrides != nil && overrides.Axis != nil {
		xName = overrides.Axis.XAxisName
		yName = overrides.Axis.YAxisName
		if overrides.Axis.ShowGrid != nil {
			showGrid = *overrides.Axis.ShowGrid
		}
	}
	if xName == "" {
		xName = xCol
	}
	if yName == "" {
		yName = yCol
	}
	spec.XAxis = &AxisSpec{Name: xName, Type: "value", ShowGrid: showGrid}
	spec.YAxis = &AxisSpec{Name: yName, Type: "value", ShowGrid: showGrid}

	spec.Series = []Series{{
		Name:   fmt.Sprintf("%s / %s", xCol, yCol),
		Type:   KindScatter,
		Points: points,
	}}
	legendEntries(spec)
	return spec, nil
}

func columnValues(rows []Row, column string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		out = append(out, cellFloatOrZero(row[column]))
	}
	return out
}
