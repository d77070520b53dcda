package viz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrUnsatisfiable signals that the chosen chart kind cannot be built from
// the available columns. Callers degrade to the table fallback, or try
// Adapt for forced kinds.
var ErrUnsatisfiable = errors.New("chart kind unsatisfiable for dataset")

// BuildSpec reshapes the dataset into the RenderSpec for the recommended
// kind, applying style overrides. It is strict: when the kind's natural
// column requirements are not met it returns ErrUnsatisfiable (wrapped with
// detail) and never a partial spec. KindTable has no spec; callers handle it
// before building.
func BuildSpec(ds *Dataset, profiles Profiles, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if ds.Empty() {
		return nil, fmt.Errorf("%w: empty dataset", ErrUnsatisfiable)
	}
	rows := capRows(ds.Rows)

	switch rec.Kind {
	case KindBar:
		return buildBar(rows, rec, overrides, customPalettes)
	case KindLine, KindArea:
		return buildLineArea(rec.Kind, rows, profiles, rec, overrides, customPalettes)
	case KindPie:
		return buildPie(rows, rec, overrides, customPalettes)
	case KindScatter:
		return buildScatter(rows, rec, overrides, customPalettes)
	case KindRadar:
		return buildRadar(rows, rec, overrides, customPalettes)
	case KindHeatmap:
		return buildHeatmap(rows, rec, overrides, customPalettes)
	case KindFunnel:
		return buildFunnel(rows, rec, overrides, customPalettes)
	case KindTreemap, KindSunburst:
		return buildHierarchy(rec.Kind, rows, rec, overrides, customPalettes)
	case KindGauge:
		return buildGauge(rows, rec, overrides, customPalettes)
	case KindSankey:
		return buildSankey(rows, rec, overrides, customPalettes)
	default:
		return nil, fmt.Errorf("%w: kind %q has no builder", ErrUnsatisfiable, rec.Kind)
	}
}

// capRows truncates to the display cap, oldest rows kept first.
func capRows(rows []Row) []Row {
	if len(rows) <= displayRowCap {
		return rows
	}
	return rows[:displayRowCap]
}

/* ------------------------------ base layout ------------------------------ */

// cartesianKinds get an axis-triggered tooltip and a grid by default.
var cartesianKinds = map[ChartKind]bool{
	KindBar: true, KindLine: true, KindArea: true, KindScatter: true,
}

// baseSpec resolves the style blocks every kind shares: title, palette,
// legend, tooltip.
func baseSpec(kind ChartKind, overrides *Overrides, customPalettes map[string][]string) *RenderSpec {
	spec := &RenderSpec{
		Kind:    kind,
		Palette: ResolvePalette(colorScheme(overrides), customPalettes),
		Legend:  LegendSpec{Show: true, Position: "top"},
		Tooltip: TooltipSpec{Show: true, Trigger: "item"},
	}
	if cartesianKinds[kind] {
		spec.Tooltip.Trigger = "axis"
	}
	if overrides == nil {
		return spec
	}
	spec.Title = overrides.Title
	if l := overrides.Legend; l != nil {
		if l.Show != nil {
			spec.Legend.Show = *l.Show
		}
		if l.Position != "" {
			spec.Legend.Position = l.Position
		}
	}
	if t := overrides.Tooltip; t != nil {
		if t.Show != nil {
			spec.Tooltip.Show = *t.Show
		}
		if t.Trigger != "" {
			spec.Tooltip.Trigger = t.Trigger
		}
	}
	return spec
}

func colorScheme(overrides *Overrides) string {
	if overrides == nil {
		return "default"
	}
	if overrides.ColorScheme == "" {
		return "default"
	}
	return overrides.ColorScheme
}

// attachAxes wires the category/value axis pair for cartesian kinds,
// honoring axis-name and grid overrides.
func attachAxes(spec *RenderSpec, categories []string, overrides *Overrides) {
	showGrid := true
	var xName, yName string
	if overrides != nil && overrides.Axis != nil {
		xName = overrides.Axis.XAxisName
		yName = overrides.Axis.YAxisName
		if overrides.Axis.ShowGrid != nil {
			showGrid = *overrides.Axis.ShowGrid
		}
	}
	spec.XAxis = &AxisSpec{Name: xName, Type: "category", Categories: categories, ShowGrid: showGrid}
	spec.YAxis = &AxisSpec{Name: yName, Type: "value", ShowGrid: showGrid}
}

func seriesFlags(overrides *Overrides) (smooth bool, stack string, label bool, radius []string) {
	if overrides == nil || overrides.SeriesConfig == nil {
		return false, "", false, nil
	}
	sc := overrides.SeriesConfig
	if sc.Smooth != nil {
		smooth = *sc.Smooth
	}
	if sc.Stack != nil && *sc.Stack {
		stack = "total"
	}
	if sc.Label != nil {
		label = *sc.Label
	}
	radius = sc.Radius
	return smooth, stack, label, radius
}

func legendEntries(spec *RenderSpec) {
	entries := make([]string, 0, len(spec.Series))
	for _, s := range spec.Series {
		entries = append(entries, s.Name)
	}
	spec.Legend.Entries = entries
}

/* ------------------------------ cell helpers ------------------------------ */

// cellString formats a cell as a category label. Whole floats print without
// a decimal point.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// cellFloat extracts a numeric cell, parsing numeric strings.
func cellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// cellFloatOrZero extracts a numeric cell, mapping non-numeric and null
// cells to zero so series stay aligned with the category axis.
func cellFloatOrZero(v any) float64 {
	f, ok := cellFloat(v)
	if !ok {
		return 0
	}
	return f
}

// indexLabels synthesizes 1-based x labels from the row index.
func indexLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// sortRowsByColumnAsc returns the rows ordered ascending by the named
// column, parsed as dates when possible, falling back to string order. The
// sort is stable and operates on a copy.
func sortRowsByColumnAsc(rows []Row, column string) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a := cellString(out[i][column])
		b := cellString(out[j][column])
		ta, okA := parseDateValue(a)
		tb, okB := parseDateValue(b)
		if okA && okB {
			return ta.Before(tb)
		}
		return a < b
	})
	return out
}

func parseDateValue(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// uniqueColumnValues returns the distinct string values of a column in first
// appearance order.
func uniqueColumnValues(rows []Row, column string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, row := range rows {
		s := cellString(row[column])
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
