package viz

import (
	"errors"
	"testing"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

func adaptFor(t *testing.T, payload string, kind ChartKind) (*RenderSpec, error) {
	t.Helper()
	ds := Normalize([]byte(payload))
	profiles := Analyze(ds, lexicon.Defaults())
	return Adapt(ds, profiles, kind, nil, nil)
}

func TestAdaptPieFromDateSeries(t *testing.T) {
	// Line-shaped data forced to pie: slice names come from the date column.
	spec, err := adaptFor(t, `[{"month":"2024-01","rev":100},{"month":"2024-02","rev":150}]`, KindPie)
	if err != nil {
		t.Fatal(err)
	}
	entries := spec.Series[0].Entries
	if len(entries) != 2 || entries[0].Name != "2024-01" || entries[0].Value != 100 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAdaptPieFromNumericOnly(t *testing.T) {
	// No name column at all: slices take row-index names.
	spec, err := adaptFor(t, `[{"v":5},{"v":7}]`, KindPie)
	if err != nil {
		t.Fatal(err)
	}
	entries := spec.Series[0].Entries
	if len(entries) != 2 || entries[0].Name != "1" || entries[1].Name != "2" {
		t.Errorf("entries = %+v, want row-index names", entries)
	}
}

func TestAdaptScatterFromSingleNumeric(t *testing.T) {
	spec, err := adaptFor(t, `[{"v":10},{"v":20},{"v":15}]`, KindScatter)
	if err != nil {
		t.Fatal(err)
	}
	points := spec.Series[0].Points
	if len(points) != 3 {
		t.Fatalf("points = %d", len(points))
	}
	if points[1].X != 2 || points[1].Y != 20 {
		t.Errorf("point[1] = %+v, want (2, 20) with row-index x", points[1])
	}
}

func TestAdaptLineFromCategoricalFreeData(t *testing.T) {
	spec, err := adaptFor(t, `[{"a":1,"b":2},{"a":3,"b":4}]`, KindLine)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Kind != KindLine {
		t.Fatalf("kind = %s", spec.Kind)
	}
	if len(spec.XAxis.Categories) != 2 || spec.XAxis.Categories[0] != "1" {
		t.Errorf("x categories = %v, want row-index labels", spec.XAxis.Categories)
	}
	if len(spec.Series) != 2 {
		t.Errorf("series = %d, want one per numeric column", len(spec.Series))
	}
}

func TestAdaptRadarPolygonPerRow(t *testing.T) {
	spec, err := adaptFor(t, `[{"a":1,"b":2,"c":3},{"a":4,"b":5,"c":6}]`, KindRadar)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Series) != 2 {
		t.Fatalf("polygons = %d, want one per row", len(spec.Series))
	}
	if len(spec.RadarIndicators) != 3 {
		t.Errorf("indicators = %d, want one per numeric column", len(spec.RadarIndicators))
	}
}

func TestAdaptHeatmapColumnMatrix(t *testing.T) {
	spec, err := adaptFor(t, `[{"region":"north","a":1,"b":2},{"region":"south","a":3,"b":4}]`, KindHeatmap)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.XAxis.Categories) != 2 {
		t.Errorf("x categories = %v", spec.XAxis.Categories)
	}
	if len(spec.YAxis.Categories) != 2 || spec.YAxis.Categories[0] != "a" {
		t.Errorf("y categories = %v, want numeric column names", spec.YAxis.Categories)
	}
	if len(spec.Series[0].HeatCells) != 4 {
		t.Errorf("cells = %d, want full matrix", len(spec.Series[0].HeatCells))
	}
}

func TestAdaptUnsatisfiable(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		kind    ChartKind
	}{
		{"sankey has no adaptation rule", `[{"v":1},{"v":2}]`, KindSankey},
		{"no numerics anywhere", `[{"a":"x"},{"a":"y"}]`, KindPie},
		{"heatmap without any categorical", `[{"v":1},{"v":2}]`, KindHeatmap},
		{"gauge has no weaker shape", `[{"a":"x"}]`, KindGauge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := adaptFor(t, tc.payload, tc.kind)
			if !errors.Is(err, ErrUnsatisfiable) {
				t.Errorf("err = %v, want ErrUnsatisfiable", err)
			}
		})
	}
}
