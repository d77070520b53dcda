package viz

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

func buildFor(t *testing.T, payload string, overrides *Overrides) (*RenderSpec, Recommendation, error) {
	t.Helper()
	lex := lexicon.Defaults()
	ds := Normalize([]byte(payload))
	profiles := Analyze(ds, lex)
	rec := Recommend(ds, profiles, lex, overrides)
	spec, err := BuildSpec(ds, profiles, rec, overrides, nil)
	return spec, rec, err
}

func TestBuildLineFromDateColumn(t *testing.T) {
	// Out-of-order months must sort ascending on the category axis.
	spec, rec, err := buildFor(t,
		`[{"month":"2024-02","revenue":150},{"month":"2024-01","revenue":100},{"month":"2024-03","revenue":90}]`,
		nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindLine {
		t.Fatalf("kind = %s, want line", rec.Kind)
	}
	wantCats := []string{"2024-01", "2024-02", "2024-03"}
	if !reflect.DeepEqual(spec.XAxis.Categories, wantCats) {
		t.Errorf("x categories = %v, want %v ascending", spec.XAxis.Categories, wantCats)
	}
	if len(spec.Series) != 1 || spec.Series[0].Name != "revenue" {
		t.Fatalf("series = %+v, want single revenue series", spec.Series)
	}
	wantVals := []float64{100, 150, 90}
	if !reflect.DeepEqual(spec.Series[0].Values, wantVals) {
		t.Errorf("values = %v, want %v (sorted with the axis)", spec.Series[0].Values, wantVals)
	}
}

func TestBuildPieRawValues(t *testing.T) {
	spec, rec, err := buildFor(t, rowsPayload(5), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindPie {
		t.Fatalf("kind = %s, want pie", rec.Kind)
	}
	entries := spec.Series[0].Entries
	if len(entries) != 5 {
		t.Fatalf("slices = %d, want 5", len(entries))
	}
	// Values stay raw, not normalized to percentages.
	if entries[2].Value != 20 {
		t.Errorf("slice value = %v, want raw 20", entries[2].Value)
	}
	if len(spec.Series[0].Radius) == 0 {
		t.Error("pie series should carry a default radius")
	}
}

func TestBuildScatterFirstTwoNumericsOnly(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i < 30; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"a":%d,"b":%d,"c":%d}`, i, i*2, i*3)
	}
	sb.WriteString(`]`)

	spec, rec, err := buildFor(t, sb.String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindScatter {
		t.Fatalf("kind = %s, want scatter", rec.Kind)
	}
	points := spec.Series[0].Points
	if len(points) != 30 {
		t.Fatalf("points = %d, want 30", len(points))
	}
	if points[5].X != 5 || points[5].Y != 10 {
		t.Errorf("point[5] = %+v, want (5, 10) from columns a and b only", points[5])
	}
}

func TestBuildBarRowCap(t *testing.T) {
	spec, rec, err := buildFor(t, rowsPayload(displayRowCap+50), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindBar {
		t.Fatalf("kind = %s, want bar", rec.Kind)
	}
	if len(spec.XAxis.Categories) != displayRowCap {
		t.Errorf("categories = %d, want capped at %d", len(spec.XAxis.Categories), displayRowCap)
	}
	// Oldest rows kept first.
	if spec.XAxis.Categories[0] != "r0" {
		t.Errorf("first category = %q, want r0", spec.XAxis.Categories[0])
	}
	if len(spec.Series[0].Values) != displayRowCap {
		t.Errorf("values = %d, want %d", len(spec.Series[0].Values), displayRowCap)
	}
	if spec.Series[0].BarMaxWidth == 0 {
		t.Error("bar series should cap bar width")
	}
}

func TestBuildFunnelSortedDescending(t *testing.T) {
	// The funnel kind is forced: the small fixture would otherwise land on
	// pie, which sits above funnel in the cascade.
	spec, rec, err := buildFor(t,
		`[{"stage":"register","n":40},{"stage":"visit","n":100},{"stage":"pay","n":8}]`,
		&Overrides{ChartType: "funnel"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindFunnel {
		t.Fatalf("kind = %s, want funnel", rec.Kind)
	}
	entries := spec.Series[0].Entries
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3: %+v", len(entries), entries)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Value > entries[i-1].Value {
			t.Fatalf("funnel entries not descending: %+v", entries)
		}
	}
	if entries[0].Name != "visit" {
		t.Errorf("widest stage = %q, want visit", entries[0].Name)
	}
	if !spec.Series[0].SortDesc {
		t.Error("funnel series should mark descending sort")
	}
}

func TestBuildRadarIndicatorsAndPolygons(t *testing.T) {
	spec, rec, err := buildFor(t,
		`[{"team":"alpha","speed":10,"power":20,"skill":30},{"team":"beta","speed":5,"power":25,"skill":15}]`,
		nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindRadar {
		t.Fatalf("kind = %s, want radar", rec.Kind)
	}
	if len(spec.RadarIndicators) != 3 {
		t.Fatalf("indicators = %d, want 3", len(spec.RadarIndicators))
	}
	// Indicator ceiling is headroom times the observed column max.
	if got, want := spec.RadarIndicators[1].Max, 25*radarIndicatorHeadroom; got != want {
		t.Errorf("power indicator max = %v, want %v", got, want)
	}
	if len(spec.Series) != 2 {
		t.Fatalf("polygons = %d, want one per distinct team", len(spec.Series))
	}
	if !reflect.DeepEqual(spec.Series[0].Values, []float64{10, 20, 30}) {
		t.Errorf("alpha polygon = %v", spec.Series[0].Values)
	}
}

func TestBuildHeatmapAxesAndExtrema(t *testing.T) {
	spec, rec, err := buildFor(t,
		`[{"row":"a","col":"x","v":5},{"row":"a","col":"y","v":-2},{"row":"b","col":"x","v":9}]`,
		nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != KindHeatmap {
		t.Fatalf("kind = %s, want heatmap", rec.Kind)
	}
	if !reflect.DeepEqual(spec.XAxis.Categories, []string{"a", "b"}) {
		t.Errorf("x categories = %v", spec.XAxis.Categories)
	}
	if !reflect.DeepEqual(spec.YAxis.Categories, []string{"x", "y"}) {
		t.Errorf("y categories = %v", spec.YAxis.Categories)
	}
	if spec.VisualMap == nil || spec.VisualMap.Min != -2 || spec.VisualMap.Max != 9 {
		t.Errorf("visual map = %+v, want [-2, 9]", spec.VisualMap)
	}
	if len(spec.Series[0].HeatCells) != 3 {
		t.Errorf("cells = %d, want 3", len(spec.Series[0].HeatCells))
	}
}

func TestBuildGaugeScalar(t *testing.T) {
	spec, _, err := buildFor(t, `[{"cpu":87.5},{"cpu":12}]`, &Overrides{ChartType: "gauge"})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Gauge == nil {
		t.Fatal("gauge block missing")
	}
	// First row's first numeric column only.
	if spec.Gauge.Value != 87.5 {
		t.Errorf("gauge value = %v, want 87.5", spec.Gauge.Value)
	}
	if spec.Gauge.Max != 100 {
		t.Errorf("gauge max = %v, want 100", spec.Gauge.Max)
	}
}

func TestBuildSankeyNodesAndLinks(t *testing.T) {
	spec, _, err := buildFor(t,
		`[{"from":"ads","to":"signup","n":50},{"from":"search","to":"signup","n":30},{"from":"ads","to":"signup","n":10}]`,
		&Overrides{ChartType: "sankey"})
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.SankeyNodes) != 3 {
		t.Errorf("nodes = %+v, want 3 distinct", spec.SankeyNodes)
	}
	if len(spec.SankeyLinks) != 2 {
		t.Fatalf("links = %+v, want parallel edges merged", spec.SankeyLinks)
	}
	for _, l := range spec.SankeyLinks {
		if l.Source == "ads" && l.Value != 60 {
			t.Errorf("ads link weight = %v, want summed 60", l.Value)
		}
	}
}

func TestBuildTreemapAggregatesAndNests(t *testing.T) {
	spec, _, err := buildFor(t,
		`[{"dept":"eng","team":"api","n":4},{"dept":"eng","team":"web","n":6},{"dept":"ops","team":"sre","n":3}]`,
		&Overrides{ChartType: "treemap"})
	if err != nil {
		t.Fatal(err)
	}
	entries := spec.Series[0].Entries
	if len(entries) != 2 {
		t.Fatalf("top level = %+v, want 2 departments", entries)
	}
	if entries[0].Name != "eng" || entries[0].Value != 10 {
		t.Errorf("eng entry = %+v, want summed value 10", entries[0])
	}
	if len(entries[0].Children) != 2 {
		t.Errorf("eng children = %+v, want nested teams", entries[0].Children)
	}
}

func TestBuildStyleOverrides(t *testing.T) {
	show := false
	stacked := true
	smooth := true
	spec, _, err := buildFor(t,
		`[{"month":"2024-01","a":1,"b":2},{"month":"2024-02","a":3,"b":4}]`,
		&Overrides{
			Title:        "Revenue",
			ColorScheme:  "warm",
			Legend:       &LegendOverride{Show: &show, Position: "bottom"},
			Axis:         &AxisOverride{XAxisName: "Month", YAxisName: "EUR"},
			Tooltip:      &TooltipOverride{Trigger: "item"},
			SeriesConfig: &SeriesConfigOverride{Stack: &stacked, Smooth: &smooth},
		})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Title != "Revenue" {
		t.Errorf("title = %q", spec.Title)
	}
	if spec.Palette[0] != builtinPalettes["warm"][0] {
		t.Errorf("palette = %v, want warm", spec.Palette[:1])
	}
	if spec.Legend.Show || spec.Legend.Position != "bottom" {
		t.Errorf("legend = %+v", spec.Legend)
	}
	if spec.XAxis.Name != "Month" || spec.YAxis.Name != "EUR" {
		t.Errorf("axis names = %q / %q", spec.XAxis.Name, spec.YAxis.Name)
	}
	if spec.Tooltip.Trigger != "item" {
		t.Errorf("tooltip trigger = %q", spec.Tooltip.Trigger)
	}
	for _, s := range spec.Series {
		if s.Stack == "" || !s.Smooth {
			t.Errorf("series flags not applied: %+v", s)
		}
	}
}

func TestBuildUnsatisfiable(t *testing.T) {
	lex := lexicon.Defaults()
	ds := Normalize([]byte(`[{"a":"x","b":"y"}]`)) // no numerics
	profiles := Analyze(ds, lex)

	for _, kind := range []ChartKind{KindPie, KindLine, KindScatter, KindGauge, KindSankey} {
		rec := keyColumnsFor(kind, ds, profiles)
		_, err := BuildSpec(ds, profiles, rec, nil, nil)
		if !errors.Is(err, ErrUnsatisfiable) {
			t.Errorf("%s on numeric-free data: err = %v, want ErrUnsatisfiable", kind, err)
		}
	}
}

func TestResolvePalette(t *testing.T) {
	if got := ResolvePalette("nope", nil); !reflect.DeepEqual(got, builtinPalettes["default"]) {
		t.Errorf("unknown palette should fall back to default, got %v", got)
	}
	custom := map[string][]string{"brand": {"#111111", "#222222"}}
	if got := ResolvePalette("brand", custom); got[0] != "#111111" {
		t.Errorf("custom palette ignored, got %v", got)
	}
	// Custom tables may shadow built-ins.
	custom["default"] = []string{"#abcdef"}
	if got := ResolvePalette("default", custom); got[0] != "#abcdef" {
		t.Errorf("custom override of default ignored, got %v", got)
	}
}
