package viz

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

func TestEngineRenderStates(t *testing.T) {
	e := NewEngine(nil)

	cases := []struct {
		name    string
		payload string
		want    RenderState
	}{
		{"chart on chartable data", `[{"region":"n","count":1},{"region":"s","count":2}]`, StateChart},
		{"empty on empty table", `{"columns":[],"rows":[]}`, StateEmpty},
		{"empty on malformed input", `this is not json`, StateEmpty},
		{"empty on unrecognized shape", `{"foo":"bar"}`, StateEmpty},
		{"table on numeric-free data", `[{"a":"x","b":"y"}]`, StateTable},
		{"error on upstream error payload", `{"error":"connection refused"}`, StateError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := e.Render([]byte(tc.payload), nil)
			if out.State != tc.want {
				t.Errorf("state = %s, want %s", out.State, tc.want)
			}
		})
	}
}

func TestEngineErrorBypassesNormalization(t *testing.T) {
	e := NewEngine(nil)
	out := e.Render([]byte(`{"error":"connection refused"}`), nil)
	if out.ErrorMessage != "connection refused" {
		t.Errorf("error message = %q, want verbatim upstream text", out.ErrorMessage)
	}
	if out.Dataset != nil {
		t.Error("error state must not carry a dataset")
	}
	if out.Spec != nil {
		t.Error("error state must not carry a spec")
	}
}

func TestEngineEmptyDatasetHasNoSpec(t *testing.T) {
	e := NewEngine(nil)
	out := e.Render([]byte(`{"columns":[],"rows":[]}`), nil)
	if out.Spec != nil {
		t.Error("empty dataset must yield a nil spec")
	}
	if out.Dataset == nil {
		t.Error("dataset should still be present for the empty-state display")
	}
}

func TestEngineDeterminism(t *testing.T) {
	e := NewEngine(nil)
	payload := []byte(`[{"month":"2024-02","rev":150},{"month":"2024-01","rev":100}]`)
	overrides := &Overrides{Title: "Revenue", ColorScheme: "cool"}

	first := e.Render(payload, overrides)
	second := e.Render(payload, overrides)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("re-render not bit-identical:\n%s\n%s", a, b)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("outputs differ structurally")
	}
}

func TestEngineForcedAdaptation(t *testing.T) {
	e := NewEngine(nil)
	// Numeric-only data forced to pie goes through the adaptation rule.
	out := e.Render([]byte(`[{"v":5},{"v":7}]`), &Overrides{ChartType: "pie"})
	if out.State != StateChart {
		t.Fatalf("state = %s, want chart", out.State)
	}
	if out.Recommendation == nil || !out.Recommendation.Adapted {
		t.Error("recommendation should be flagged adapted")
	}
	if out.Spec.Kind != KindPie {
		t.Errorf("kind = %s, want pie", out.Spec.Kind)
	}
}

func TestEngineForcedUnsatisfiableFallsToTable(t *testing.T) {
	e := NewEngine(nil)
	// Sankey has no adaptation rule; a forced sankey on flat data degrades
	// to the table state without error.
	out := e.Render([]byte(`[{"v":1},{"v":2}]`), &Overrides{ChartType: "sankey"})
	if out.State != StateTable {
		t.Fatalf("state = %s, want table", out.State)
	}
	if out.Spec != nil {
		t.Error("table fallback carries no spec")
	}
	if out.Dataset.Empty() {
		t.Error("table fallback must keep the dataset")
	}
}

func TestEngineNeverMutatesInput(t *testing.T) {
	e := NewEngine(nil)
	payload := []byte(`[{"month":"2024-01","rev":100}]`)
	before := string(payload)
	_ = e.Render(payload, nil)
	if string(payload) != before {
		t.Error("render must not mutate the input payload")
	}
}

func TestEngineLexiconSwapDuringRenders(t *testing.T) {
	// Hot-reload swaps the lexicon while renders are in flight. Every render
	// must see a complete table: either outcome is valid, a torn one is not.
	e := NewEngine(nil)
	payload := []byte(`[{"month":"2024-01","rev":100},{"month":"2024-02","rev":150}]`)

	custom := &lexicon.Set{
		DateKeywords: []string{"month"},
		FunnelStages: []string{"visit"},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			e.SetLexicons(custom)
			e.SetLexicons(lexicon.Defaults())
		}
	}()

	for i := 0; i < 200; i++ {
		out := e.Render(payload, nil)
		if out.State != StateChart {
			t.Fatalf("state = %s, want chart", out.State)
		}
		if out.Recommendation.Kind != KindLine {
			t.Fatalf("kind = %s, want line under every lexicon snapshot", out.Recommendation.Kind)
		}
	}
	<-done
}
