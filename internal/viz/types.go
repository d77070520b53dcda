// Package viz implements the chart recommendation engine: it normalizes
// arbitrary tabular payloads into a canonical dataset, infers per-column
// semantic types, selects the visualization kind that best represents the
// data, and emits a fully resolved RenderSpec a drawing surface can consume
// without further decisions.
//
// Every function in this package is pure and synchronous. Inputs are copied
// on construction and outputs are built fresh per call, so concurrent use
// needs no coordination.
package viz

// ColumnType is the inferred semantic type of one column.
type ColumnType string

const (
	ColumnNumeric      ColumnType = "numeric"
	ColumnDate         ColumnType = "date"
	ColumnCategorical  ColumnType = "categorical"
	ColumnUnclassified ColumnType = "unclassified"
)

// ChartKind identifies one of the supported visualization kinds. "table" is
// the universal fallback.
type ChartKind string

const (
	KindBar      ChartKind = "bar"
	KindLine     ChartKind = "line"
	KindArea     ChartKind = "area"
	KindPie      ChartKind = "pie"
	KindScatter  ChartKind = "scatter"
	KindRadar    ChartKind = "radar"
	KindFunnel   ChartKind = "funnel"
	KindHeatmap  ChartKind = "heatmap"
	KindTreemap  ChartKind = "treemap"
	KindSunburst ChartKind = "sunburst"
	KindGauge    ChartKind = "gauge"
	KindSankey   ChartKind = "sankey"
	KindTable    ChartKind = "table"
)

// AllKinds lists every supported chart kind in a stable order.
var AllKinds = []ChartKind{
	KindBar, KindLine, KindArea, KindPie, KindScatter, KindRadar,
	KindFunnel, KindHeatmap, KindTreemap, KindSunburst, KindGauge,
	KindSankey, KindTable,
}

// IsValidKind reports whether s names a supported chart kind.
func IsValidKind(s string) bool {
	for _, k := range AllKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Pinned engine constants. Upstream revisions drifted on the pie cutoff
// (10/15/20) and the sample size (5/10/20); these are the canonical values.
const (
	// analyzeSampleSize is how many non-null values the analyzer inspects
	// per column before classifying it.
	analyzeSampleSize = 10

	// pieMaxRows is the row-count ceiling for the auto-recommended pie.
	pieMaxRows = 15

	// radarMaxRows is the row-count ceiling for the auto-recommended radar.
	radarMaxRows = 5

	// displayRowCap bounds how many rows reach series construction. Rows
	// beyond the cap are dropped, oldest kept first.
	displayRowCap = 100

	// radarIndicatorHeadroom scales the observed column max into the
	// indicator ceiling so polygons never touch the rim.
	radarIndicatorHeadroom = 1.2
)

// Row is one record of a Dataset keyed by column name. Cell values are
// scalars only: float64, string, or nil.
type Row map[string]any

// Dataset is the canonical table every accepted payload shape normalizes
// into. Column names are unique and keep the source insertion order; every
// row carries every declared column key, with nil for missing cells.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the dataset has no usable cells.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Columns) == 0 || len(d.Rows) == 0
}

// Clone returns a deep copy. Rows are scalar-valued, so copying each map is
// sufficient.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, len(d.Rows)),
	}
	for i, r := range d.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// ColumnProfile records the inferred type of one column.
type ColumnProfile struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Profiles is the ordered set of column profiles for one dataset.
type Profiles []ColumnProfile

// ByType returns the column names holding the given type, in dataset order.
func (p Profiles) ByType(t ColumnType) []string {
	var out []string
	for _, cp := range p {
		if cp.Type == t {
			out = append(out, cp.Name)
		}
	}
	return out
}

// Count returns how many columns hold the given type.
func (p Profiles) Count(t ColumnType) int {
	n := 0
	for _, cp := range p {
		if cp.Type == t {
			n++
		}
	}
	return n
}

// TypeOf returns the inferred type for a named column, or ColumnUnclassified
// when the column is unknown.
func (p Profiles) TypeOf(name string) ColumnType {
	for _, cp := range p {
		if cp.Name == name {
			return cp.Type
		}
	}
	return ColumnUnclassified
}

// Recommendation is the recommender's decision: the chart kind plus the key
// columns the builder should read.
type Recommendation struct {
	Kind ChartKind `json:"kind"`

	// XColumn is the category/date axis column. Empty for kinds without an
	// x axis (pie, gauge, ...).
	XColumn string `json:"x_column,omitempty"`

	// YColumns are the value columns, in dataset order.
	YColumns []string `json:"y_columns,omitempty"`

	// CategoryColumn is the grouping column for pie/funnel/radar/heatmap.
	CategoryColumn string `json:"category_column,omitempty"`

	// SecondCategoryColumn is the second grouping axis (heatmap y, sankey
	// target).
	SecondCategoryColumn string `json:"second_category_column,omitempty"`

	// Forced is set when the caller supplied the kind instead of the
	// cascade choosing it.
	Forced bool `json:"forced,omitempty"`

	// Adapted is set when a forced kind could not be satisfied directly
	// and a documented adaptation rule reshaped the data for it.
	Adapted bool `json:"adapted,omitempty"`
}

// LegendOverride controls legend visibility and placement.
type LegendOverride struct {
	Show     *bool  `json:"show,omitempty"`
	Position string `json:"position,omitempty"` // top | bottom | left | right
}

// AxisOverride names the axes and toggles the background grid.
type AxisOverride struct {
	XAxisName string `json:"xAxisName,omitempty"`
	YAxisName string `json:"yAxisName,omitempty"`
	ShowGrid  *bool  `json:"showGrid,omitempty"`
}

// TooltipOverride controls tooltip visibility and trigger mode.
type TooltipOverride struct {
	Show    *bool  `json:"show,omitempty"`
	Trigger string `json:"trigger,omitempty"` // item | axis
}

// SeriesConfigOverride carries per-series behavior flags.
type SeriesConfigOverride struct {
	Smooth *bool    `json:"smooth,omitempty"`
	Stack  *bool    `json:"stack,omitempty"`
	Label  *bool    `json:"label,omitempty"`
	Radius []string `json:"radius,omitempty"` // pie inner/outer radius, e.g. ["40%","70%"]
}

// DataMappingOverride pins key columns explicitly, bypassing auto-detection.
type DataMappingOverride struct {
	XColumn        string   `json:"x_column,omitempty"`
	YColumns       []string `json:"y_columns,omitempty"`
	CategoryColumn string   `json:"category_column,omitempty"`
}

// Overrides is the caller-supplied style configuration. Every field is
// optional; absence triggers auto-detection.
type Overrides struct {
	ChartType    string                `json:"chart_type,omitempty"`
	Title        string                `json:"title,omitempty"`
	ColorScheme  string                `json:"color_scheme,omitempty"`
	Legend       *LegendOverride       `json:"legend,omitempty"`
	Axis         *AxisOverride         `json:"axis,omitempty"`
	Tooltip      *TooltipOverride      `json:"tooltip,omitempty"`
	SeriesConfig *SeriesConfigOverride `json:"series_config,omitempty"`
	DataMapping  *DataMappingOverride  `json:"data_mapping,omitempty"`
}

// LegendSpec is the resolved legend descriptor.
type LegendSpec struct {
	Show     bool     `json:"show"`
	Position string   `json:"position"`
	Entries  []string `json:"entries,omitempty"`
}

// TooltipSpec is the resolved tooltip descriptor.
type TooltipSpec struct {
	Show    bool   `json:"show"`
	Trigger string `json:"trigger"`
}

// AxisSpec is one resolved axis: its name, kind, and category labels when the
// axis is categorical.
type AxisSpec struct {
	Name       string   `json:"name,omitempty"`
	Type       string   `json:"type"` // category | value
	Categories []string `json:"categories,omitempty"`
	ShowGrid   bool     `json:"show_grid"`
}

// NameValue is one name/value entry (pie slices, funnel stages, treemap and
// sunburst nodes). Children nest a second categorical level for treemap and
// sunburst.
type NameValue struct {
	Name     string      `json:"name"`
	Value    float64     `json:"value"`
	Children []NameValue `json:"children,omitempty"`
}

// Point is one (x, y) pair for scatter series.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HeatCell is one heatmap cell addressed by category indexes.
type HeatCell struct {
	XIndex int     `json:"x"`
	YIndex int     `json:"y"`
	Value  float64 `json:"value"`
}

// RadarIndicator is one radar axis with its ceiling.
type RadarIndicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// SankeyNode is one node of a sankey diagram.
type SankeyNode struct {
	Name string `json:"name"`
}

// SankeyLink is one weighted edge of a sankey diagram.
type SankeyLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// VisualMapSpec carries the color-scale bounds for heatmaps, computed from
// the data extrema.
type VisualMapSpec struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GaugeSpec is the single-dial gauge block.
type GaugeSpec struct {
	Value float64 `json:"value"`
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Series is one renderable series. Type repeats the owning spec's kind tag
// so mixed surfaces can dispatch per series. Exactly one of the payload
// fields is populated, depending on the kind.
type Series struct {
	Name string    `json:"name"`
	Type ChartKind `json:"type"`

	Values    []float64   `json:"values,omitempty"`     // bar | line | area | radar polygons
	Entries   []NameValue `json:"entries,omitempty"`    // pie | funnel | treemap | sunburst
	Points    []Point     `json:"points,omitempty"`     // scatter
	HeatCells []HeatCell  `json:"heat_cells,omitempty"` // heatmap

	// Behavior flags resolved from overrides.
	Smooth      bool     `json:"smooth,omitempty"`
	Stack       string   `json:"stack,omitempty"` // non-empty group name enables stacking
	ShowLabel   bool     `json:"show_label,omitempty"`
	AreaOpacity float64  `json:"area_opacity,omitempty"` // area fill gradient strength
	BarMaxWidth int      `json:"bar_max_width,omitempty"`
	Radius      []string `json:"radius,omitempty"` // pie
	SortDesc    bool     `json:"sort_desc,omitempty"`
}

// RenderSpec is the fully resolved, declarative rendering configuration.
// Kind is the discriminator; the optional blocks are populated only for the
// kinds that need them. A RenderSpec is never mutated after construction.
type RenderSpec struct {
	Kind    ChartKind   `json:"kind"`
	Title   string      `json:"title,omitempty"`
	Palette []string    `json:"palette"`
	Legend  LegendSpec  `json:"legend"`
	Tooltip TooltipSpec `json:"tooltip"`

	XAxis *AxisSpec `json:"x_axis,omitempty"`
	YAxis *AxisSpec `json:"y_axis,omitempty"`

	Series []Series `json:"series"`

	RadarIndicators []RadarIndicator `json:"radar_indicators,omitempty"`
	VisualMap       *VisualMapSpec   `json:"visual_map,omitempty"`
	Gauge           *GaugeSpec       `json:"gauge,omitempty"`
	SankeyNodes     []SankeyNode     `json:"sankey_nodes,omitempty"`
	SankeyLinks     []SankeyLink     `json:"sankey_links,omitempty"`
}

// RenderState tells the caller what surface to draw.
type RenderState string

const (
	StateChart RenderState = "chart" // draw Spec
	StateTable RenderState = "table" // draw Dataset as a plain table
	StateEmpty RenderState = "empty" // empty-state display
	StateError RenderState = "error" // display ErrorMessage verbatim
)

// RenderOutput is the engine's public result. Dataset is always present
// except in the error state, so table fallback and debug export need no
// second pass.
type RenderOutput struct {
	State          RenderState     `json:"state"`
	Spec           *RenderSpec     `json:"spec,omitempty"`
	Dataset        *Dataset        `json:"dataset,omitempty"`
	Profiles       Profiles        `json:"profiles,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
}
