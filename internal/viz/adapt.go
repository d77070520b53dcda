package viz

import (
	"fmt"
	"strconv"
)

// Adapt is the documented recovery path for forced chart kinds whose natural
// column requirements fail. Each kind has exactly one reshaping rule; when
// no rule applies the kind stays unsatisfiable and the caller degrades to
// the table fallback.
//
// Rules:
//
//	bar, line, area   synthesize the x axis from the row index
//	pie, funnel,      synthesize slice names from the date/x column when one
//	treemap, sunburst exists, else from the row index
//	scatter           pair the single numeric column with the row index
//	radar             one polygon per row, named by row index
//	heatmap           with one categorical column, the numeric column names
//	                  become the y axis and cells read column values
//	gauge, sankey     no weaker shape exists; stays unsatisfiable
//	table             never reaches adaptation
//
// Every rule still requires at least one numeric column; a dataset without
// numbers has nothing to chart.
func Adapt(ds *Dataset, profiles Profiles, kind ChartKind, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if ds.Empty() {
		return nil, fmt.Errorf("%w: empty dataset", ErrUnsatisfiable)
	}
	numeric := profiles.ByType(ColumnNumeric)
	if len(numeric) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns to adapt %s from", ErrUnsatisfiable, kind)
	}
	date := profiles.ByType(ColumnDate)
	categorical := profiles.ByType(ColumnCategorical)
	rows := capRows(ds.Rows)

	switch kind {
	case KindBar:
		rec := Recommendation{Kind: KindBar, YColumns: numeric, Adapted: true}
		return buildBar(rows, rec, overrides, customPalettes)

	case KindLine, KindArea:
		// No usable x column: index the rows and chart the numeric columns
		// over synthetic categories via the bar axis construction, retagged.
		syn := withIndexColumn(rows)
		rec := Recommendation{Kind: kind, XColumn: syntheticIndexColumn, YColumns: numeric, Adapted: true}
		return buildLineArea(kind, syn, profiles, rec, overrides, customPalettes)

	case KindPie, KindFunnel, KindTreemap, KindSunburst:
		nameCol := syntheticIndexColumn
		syn := rows
		if len(date) > 0 {
			nameCol = date[0]
		} else {
			syn = withIndexColumn(rows)
		}
		rec := Recommendation{Kind: kind, CategoryColumn: nameCol, YColumns: numeric[:1], Adapted: true}
		switch kind {
		case KindPie:
			return buildPie(syn, rec, overrides, customPalettes)
		case KindFunnel:
			return buildFunnel(syn, rec, overrides, customPalettes)
		default:
			return buildHierarchy(kind, syn, rec, overrides, customPalettes)
		}

	case KindScatter:
		syn := withIndexNumberColumn(rows)
		rec := Recommendation{
			Kind:     KindScatter,
			YColumns: []string{syntheticIndexColumn, numeric[0]},
			Adapted:  true,
		}
		return buildScatter(syn, rec, overrides, customPalettes)

	case KindRadar:
		syn := withIndexColumn(rows)
		rec := Recommendation{Kind: KindRadar, CategoryColumn: syntheticIndexColumn, YColumns: numeric, Adapted: true}
		return buildRadar(syn, rec, overrides, customPalettes)

	case KindHeatmap:
		if len(categorical) == 0 {
			return nil, fmt.Errorf("%w: heatmap needs at least one categorical column", ErrUnsatisfiable)
		}
		return adaptHeatmapMatrix(rows, categorical[0], numeric, overrides, customPalettes)

	default:
		return nil, fmt.Errorf("%w: no adaptation rule for %s", ErrUnsatisfiable, kind)
	}
}

// syntheticIndexColumn is the reserved column the adaptation rules inject
// for row-index labels and coordinates.
const syntheticIndexColumn = "__row__"

func withIndexColumn(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		nr := make(Row, len(row)+1)
		for k, v := range row {
			nr[k] = v
		}
		nr[syntheticIndexColumn] = strconv.Itoa(i + 1)
		out[i] = nr
	}
	return out
}

func withIndexNumberColumn(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		nr := make(Row, len(row)+1)
		for k, v := range row {
			nr[k] = v
		}
		nr[syntheticIndexColumn] = float64(i + 1)
		out[i] = nr
	}
	return out
}

// adaptHeatmapMatrix degrades a one-categorical dataset into a column
// matrix: x = categorical values, y = numeric column names, cell = value.
func adaptHeatmapMatrix(rows []Row, categoryCol string, numeric []string, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	xCats := uniqueColumnValues(rows, categoryCol)
	xIndex := indexOf(xCats)

	cells := make([]HeatCell, 0, len(rows)*len(numeric))
	minV, maxV := 0.0, 0.0
	first := true
	for _, row := range rows {
		xi, ok := xIndex[cellString(row[categoryCol])]
		if !ok {
			continue
		}
		for yi, col := range numeric {
			v, ok := cellFloat(row[col])
			if !ok {
				continue
			}
			cells = append(cells, HeatCell{XIndex: xi, YIndex: yi, Value: v})
			if first || v < minV {
				minV = v
			}
			if first || v > maxV {
				maxV = v
			}
			first = false
		}
	}

	spec := baseSpec(KindHeatmap, overrides, customPalettes)
	var xName, yName string
	if overrides != nil && overrides.Axis != nil {
		xName = overrides.Axis.XAxisName
		yName = overrides.Axis.YAxisName
	}
	spec.XAxis = &AxisSpec{Name: xName, Type: "category", Categories: xCats}
	spec.YAxis = &AxisSpec{Name: yName, Type: "category", Categories: append([]string(nil), numeric...)}
	spec.VisualMap = &VisualMapSpec{Min: minV, Max: maxV}
	spec.Series = []Series{{Name: "matrix", Type: KindHeatmap, HeatCells: cells}}
	spec.Legend.Show = false
	return spec, nil
}
