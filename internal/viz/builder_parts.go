package viz

import (
	"fmt"
	"sort"
)

// defaultPieRadius leaves a donut hole so labels fit inside dense slices.
var defaultPieRadius = []string{"40%", "70%"}

// buildPie emits one {name, value} entry per row from the category/value
// column pair. Values stay raw; the surface normalizes slice angles itself.
func buildPie(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	entries, err := nameValueEntries(rows, rec, KindPie)
	if err != nil {
		return nil, err
	}

	spec := baseSpec(KindPie, overrides, customPalettes)
	_, _, label, radius := seriesFlags(overrides)
	if len(radius) == 0 {
		radius = defaultPieRadius
	}
	spec.Series = []Series{{
		Name:      rec.YColumns[0],
		Type:      KindPie,
		Entries:   entries,
		Radius:    radius,
		ShowLabel: label,
	}}
	spec.Legend.Entries = entryNames(entries)
	return spec, nil
}

// buildFunnel is the pie reshaping with stages sorted descending by value.
func buildFunnel(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	entries, err := nameValueEntries(rows, rec, KindFunnel)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })

	spec := baseSpec(KindFunnel, overrides, customPalettes)
	_, _, label, _ := seriesFlags(overrides)
	spec.Series = []Series{{
		Name:      rec.YColumns[0],
		Type:      KindFunnel,
		Entries:   entries,
		ShowLabel: label,
		SortDesc:  true,
	}}
	spec.Legend.Entries = entryNames(entries)
	return spec, nil
}

// buildRadar emits one indicator per numeric column with a 1.2x headroom
// ceiling, and one polygon per distinct category value (first row wins on
// duplicates).
func buildRadar(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if rec.CategoryColumn == "" {
		return nil, fmt.Errorf("%w: radar needs a categorical column", ErrUnsatisfiable)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: radar needs at least one numeric column", ErrUnsatisfiable)
	}

	spec := baseSpec(KindRadar, overrides, customPalettes)
	spec.RadarIndicators = radarIndicators(rows, rec.YColumns)

	seen := make(map[string]bool)
	for _, row := range rows {
		name := cellString(row[rec.CategoryColumn])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		values := make([]float64, 0, len(rec.YColumns))
		for _, y := range rec.YColumns {
			values = append(values, cellFloatOrZero(row[y]))
		}
		spec.Series = append(spec.Series, Series{Name: name, Type: KindRadar, Values: values})
	}
	legendEntries(spec)
	return spec, nil
}

func radarIndicators(rows []Row, yColumns []string) []RadarIndicator {
	indicators := make([]RadarIndicator, 0, len(yColumns))
	for _, y := range yColumns {
		max := 0.0
		for _, row := range rows {
			if v, ok := cellFloat(row[y]); ok && v > max {
				max = v
			}
		}
		indicators = append(indicators, RadarIndicator{Name: y, Max: max * radarIndicatorHeadroom})
	}
	return indicators
}

// buildHeatmap maps the two categorical columns onto the x/y axes and the
// numeric column onto cell intensity, with visual-map bounds from the data
// extrema. Duplicate (x, y) addresses keep the last value.
func buildHeatmap(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if rec.CategoryColumn == "" || rec.SecondCategoryColumn == "" {
		return nil, fmt.Errorf("%w: heatmap needs two categorical columns", ErrUnsatisfiable)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: heatmap needs a numeric column", ErrUnsatisfiable)
	}
	valueCol := rec.YColumns[0]

	xCats := uniqueColumnValues(rows, rec.CategoryColumn)
	yCats := uniqueColumnValues(rows, rec.SecondCategoryColumn)
	xIndex := indexOf(xCats)
	yIndex := indexOf(yCats)

	cells := make([]HeatCell, 0, len(rows))
	minV, maxV := 0.0, 0.0
	first := true
	for _, row := range rows {
		xi, okX := xIndex[cellString(row[rec.CategoryColumn])]
		yi, okY := yIndex[cellString(row[rec.SecondCategoryColumn])]
		v, okV := cellFloat(row[valueCol])
		if !okX || !okY || !okV {
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

	spec := baseSpec(KindHeatmap, overrides, customPalettes)
	showGrid := false
	var xName, yName string
	if overrides != nil && overrides.Axis != nil {
		xName = overrides.Axis.XAxisName
		yName = overrides.Axis.YAxisName
	}
	spec.XAxis = &AxisSpec{Name: xName, Type: "category", Categories: xCats, ShowGrid: showGrid}
	spec.YAxis = &AxisSpec{Name: yName, Type: "category", Categories: yCats, ShowGrid: showGrid}
	spec.VisualMap = &VisualMapSpec{Min: minV, Max: maxV}
	spec.Series = []Series{{Name: valueCol, Type: KindHeatmap, HeatCells: cells}}
	spec.Legend.Show = false
	return spec, nil
}

// buildHierarchy serves treemap and sunburst. Rows aggregate by category
// value (summing the value column); when the recommendation carries a second
// categorical column its values nest as children under the first level.
func buildHierarchy(kind ChartKind, rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if rec.CategoryColumn == "" {
		return nil, fmt.Errorf("%w: %s needs a categorical column", ErrUnsatisfiable, kind)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: %s needs a numeric column", ErrUnsatisfiable, kind)
	}
	valueCol := rec.YColumns[0]

	order := uniqueColumnValues(rows, rec.CategoryColumn)
	totals := make(map[string]float64, len(order))
	children := make(map[string][]NameValue)
	childIdx := make(map[string]map[string]int)

	for _, row := range rows {
		name := cellString(row[rec.CategoryColumn])
		if name == "" {
			continue
		}
		v := cellFloatOrZero(row[valueCol])
		totals[name] += v

		if rec.SecondCategoryColumn == "" {
			continue
		}
		childName := cellString(row[rec.SecondCategoryColumn])
		if childName == "" {
			continue
		}
		if childIdx[name] == nil {
			childIdx[name] = make(map[string]int)
		}
		if i, ok := childIdx[name][childName]; ok {
			children[name][i].Value += v
		} else {
			childIdx[name][childName] = len(children[name])
			children[name] = append(children[name], NameValue{Name: childName, Value: v})
		}
	}

	entries := make([]NameValue, 0, len(order))
	for _, name := range order {
		entries = append(entries, NameValue{
			Name:     name,
			Value:    totals[name],
			Children: children[name],
		})
	}

	spec := baseSpec(kind, overrides, customPalettes)
	_, _, label, _ := seriesFlags(overrides)
	spec.Series = []Series{{Name: valueCol, Type: kind, Entries: entries, ShowLabel: label}}
	spec.Legend.Entries = entryNames(entries)
	return spec, nil
}

// buildGauge reads a single scalar: the first row's first numeric column.
// The dial ceiling is 100 unless the value exceeds it, then headroom above
// the value.
func buildGauge(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: gauge needs a numeric column", ErrUnsatisfiable)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: gauge needs at least one row", ErrUnsatisfiable)
	}
	valueCol := rec.YColumns[0]
	value, ok := cellFloat(rows[0][valueCol])
	if !ok {
		return nil, fmt.Errorf("%w: gauge column %q holds no numeric value", ErrUnsatisfiable, valueCol)
	}

	max := 100.0
	if value > max {
		max = value * radarIndicatorHeadroom
	}

	spec := baseSpec(KindGauge, overrides, customPalettes)
	spec.Gauge = &GaugeSpec{Value: value, Name: valueCol, Min: 0, Max: max}
	spec.Series = []Series{{Name: valueCol, Type: KindGauge, Values: []float64{value}}}
	spec.Legend.Show = false
	return spec, nil
}

// buildSankey builds the node/edge list from two categorical columns plus
// one numeric weight column. Parallel edges between the same pair sum their
// weights.
func buildSankey(rows []Row, rec Recommendation, overrides *Overrides, customPalettes map[string][]string) (*RenderSpec, error) {
	if rec.CategoryColumn == "" || rec.SecondCategoryColumn == "" {
		return nil, fmt.Errorf("%w: sankey needs two categorical columns", ErrUnsatisfiable)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: sankey needs a numeric weight column", ErrUnsatisfiable)
	}
	weightCol := rec.YColumns[0]

	var nodes []SankeyNode
	nodeSeen := make(map[string]bool)
	addNode := func(name string) {
		if name == "" || nodeSeen[name] {
			return
		}
		nodeSeen[name] = true
		nodes = append(nodes, SankeyNode{Name: name})
	}

	var links []SankeyLink
	linkIdx := make(map[[2]string]int)
	for _, row := range rows {
		source := cellString(row[rec.CategoryColumn])
		target := cellString(row[rec.SecondCategoryColumn])
		if source == "" || target == "" || source == target {
			continue // self-loops would cycle the layout
		}
		weight, ok := cellFloat(row[weightCol])
		if !ok {
			continue
		}
		addNode(source)
		addNode(target)
		key := [2]string{source, target}
		if i, ok := linkIdx[key]; ok {
			links[i].Value += weight
		} else {
			linkIdx[key] = len(links)
			links = append(links, SankeyLink{Source: source, Target: target, Value: weight})
		}
	}

	spec := baseSpec(KindSankey, overrides, customPalettes)
	spec.SankeyNodes = nodes
	spec.SankeyLinks = links
	spec.Series = []Series{{Name: weightCol, Type: KindSankey}}
	spec.Legend.Show = false
	return spec, nil
}

/* -------------------------------- helpers -------------------------------- */

// nameValueEntries builds the shared pie/funnel row reshaping.
func nameValueEntries(rows []Row, rec Recommendation, kind ChartKind) ([]NameValue, error) {
	if rec.CategoryColumn == "" {
		return nil, fmt.Errorf("%w: %s needs a categorical column", ErrUnsatisfiable, kind)
	}
	if len(rec.YColumns) == 0 {
		return nil, fmt.Errorf("%w: %s needs a numeric column", ErrUnsatisfiable, kind)
	}
	valueCol := rec.YColumns[0]
	entries := make([]NameValue, 0, len(rows))
	for _, row := range rows {
		name := cellString(row[rec.CategoryColumn])
		if name == "" {
			continue
		}
		entries = append(entries, NameValue{Name: name, Value: cellFloatOrZero(row[valueCol])})
	}
	return entries, nil
}

func entryNames(entries []NameValue) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func indexOf(values []string) map[string]int {
	out := make(map[string]int, len(values))
	for i, v := range values {
		out[v] = i
	}
	return out
}
