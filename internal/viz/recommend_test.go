package viz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

func recommendFor(t *testing.T, payload string, overrides *Overrides) Recommendation {
	t.Helper()
	lex := lexicon.Defaults()
	ds := Normalize([]byte(payload))
	profiles := Analyze(ds, lex)
	return Recommend(ds, profiles, lex, overrides)
}

// rowsPayload builds a record-array payload of n category/value rows.
func rowsPayload(n int) string {
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"region":"r%d","count":%d}`, i, i*10)
	}
	sb.WriteString(`]`)
	return sb.String()
}

// funnelPayload builds n stage/value rows cycling through funnel vocabulary.
// Callers pass n > pieMaxRows so the pie rule, which sits above funnel in the
// cascade, does not claim the small category/value shape first.
func funnelPayload(n int) string {
	stages := []string{"visit", "register", "pay"}
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"step":%q,"n":%d}`, stages[i%len(stages)], 100-i)
	}
	sb.WriteString(`]`)
	return sb.String()
}

func TestRecommendCascade(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    ChartKind
	}{
		{
			"pie on small category/value pair",
			rowsPayload(5),
			KindPie,
		},
		{
			"line on date plus numeric",
			`[{"month":"2024-01","revenue":100},{"month":"2024-02","revenue":150}]`,
			KindLine,
		},
		{
			"scatter on numeric only pair",
			`[{"x":1,"y":2},{"x":3,"y":4}]`,
			KindScatter,
		},
		{
			"heatmap on two categories one numeric",
			`[{"row":"a","col":"x","v":1},{"row":"b","col":"y","v":2}]`,
			KindHeatmap,
		},
		{
			"funnel on stage vocabulary",
			funnelPayload(pieMaxRows + 3),
			KindFunnel,
		},
		{
			"radar on wide numeric with category",
			`[{"team":"a","speed":1,"power":2,"skill":3},{"team":"b","speed":2,"power":1,"skill":2}]`,
			KindRadar,
		},
		{
			"bar fallback on large category/value pair",
			rowsPayload(40),
			KindBar,
		},
		{
			"bar on numeric only single column",
			`[{"v":1},{"v":2}]`,
			KindBar,
		},
		{
			"table on no numeric columns",
			`[{"a":"x","b":"y"}]`,
			KindTable,
		},
		{
			"table on empty dataset",
			`{"columns":[],"rows":[]}`,
			KindTable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := recommendFor(t, tc.payload, nil)
			if got.Kind != tc.want {
				t.Errorf("recommended %s, want %s", got.Kind, tc.want)
			}
		})
	}
}

func TestRecommendPieRowBoundary(t *testing.T) {
	// Exactly pieMaxRows rows stays pie; one more falls through to bar.
	if got := recommendFor(t, rowsPayload(pieMaxRows), nil); got.Kind != KindPie {
		t.Errorf("%d rows recommended %s, want pie", pieMaxRows, got.Kind)
	}
	if got := recommendFor(t, rowsPayload(pieMaxRows+1), nil); got.Kind != KindBar {
		t.Errorf("%d rows recommended %s, want bar", pieMaxRows+1, got.Kind)
	}
}

func TestRecommendScatterIgnoresExtraNumerics(t *testing.T) {
	got := recommendFor(t, `[{"a":1,"b":2,"c":3},{"a":4,"b":5,"c":6}]`, nil)
	if got.Kind != KindScatter {
		t.Fatalf("recommended %s, want scatter", got.Kind)
	}
	if len(got.YColumns) != 2 || got.YColumns[0] != "a" || got.YColumns[1] != "b" {
		t.Errorf("scatter columns = %v, want first two numerics [a b]", got.YColumns)
	}
}

func TestRecommendRadarRowCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i <= radarMaxRows; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"team":"t%d","a":1,"b":2,"c":3}`, i)
	}
	sb.WriteString(`]`)

	got := recommendFor(t, sb.String(), nil)
	if got.Kind == KindRadar {
		t.Errorf("%d rows should not recommend radar", radarMaxRows+1)
	}
}

func TestRecommendUnclassifiedColumnsCountNowhere(t *testing.T) {
	// The all-null column must not count as categorical: 1 numeric + 1
	// all-null column is the uncategorized bar shape, not pie or bar with
	// categories.
	got := recommendFor(t, `[{"v":1,"ghost":null},{"v":2,"ghost":null}]`, nil)
	if got.Kind != KindBar {
		t.Fatalf("recommended %s, want bar", got.Kind)
	}
	if got.XColumn != "" {
		t.Errorf("x column = %q, want empty (index-labeled bar)", got.XColumn)
	}
}

func TestRecommendForcedKind(t *testing.T) {
	got := recommendFor(t, rowsPayload(5), &Overrides{ChartType: "funnel"})
	if got.Kind != KindFunnel || !got.Forced {
		t.Errorf("got %+v, want forced funnel", got)
	}

	// Unknown kind names fall back to the cascade.
	got = recommendFor(t, rowsPayload(5), &Overrides{ChartType: "hologram"})
	if got.Kind != KindPie || got.Forced {
		t.Errorf("unknown forced kind should use cascade, got %+v", got)
	}
}

func TestRecommendDataMappingOverride(t *testing.T) {
	got := recommendFor(t,
		`[{"month":"2024-01","a":1,"b":2},{"month":"2024-02","a":3,"b":4}]`,
		&Overrides{DataMapping: &DataMappingOverride{YColumns: []string{"b"}}})
	if got.Kind != KindLine {
		t.Fatalf("recommended %s, want line", got.Kind)
	}
	if len(got.YColumns) != 1 || got.YColumns[0] != "b" {
		t.Errorf("y columns = %v, want [b]", got.YColumns)
	}
}

func TestRecommendFunnelNeedsFullVocabulary(t *testing.T) {
	// One non-stage value disqualifies the funnel rule; the cascade falls
	// through to the categorized bar fallback.
	payload := strings.TrimSuffix(funnelPayload(pieMaxRows+3), `]`) +
		`,{"step":"banana","n":1}]`
	got := recommendFor(t, payload, nil)
	if got.Kind != KindBar {
		t.Errorf("recommended %s, want bar when one value misses the stage lexicon", got.Kind)
	}
}
