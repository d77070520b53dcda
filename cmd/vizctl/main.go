// Command vizctl runs the chart recommendation pipeline from the command
// line: feed it a JSON payload, get back the render spec (or just the
// recommendation) without a running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/vizorhq/vizor-core/internal/viz"
	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

func main() {
	var (
		in        = flag.String("in", "-", "input payload file, - for stdin")
		out       = flag.String("out", "-", "output file, - for stdout")
		chart     = flag.String("chart", "", "force a chart kind instead of the cascade pick")
		overrides = flag.String("overrides", "", "overrides as inline JSON")
		lexFile   = flag.String("lexicon", "", "lexicon YAML file replacing the built-in keyword tables")
		mode      = flag.String("mode", "render", "render | recommend | analyze | normalize")
		pretty    = flag.Bool("pretty", false, "indent JSON output")
		listKinds = flag.Bool("kinds", false, "list supported chart kinds and exit")
	)
	flag.Parse()

	if *listKinds {
		printKinds(os.Stdout)
		return
	}

	ov, err := parseOverrides(*chart, *overrides)
	if err != nil {
		fatalf("overrides: %v", err)
	}

	raw, err := readInput(*in)
	if err != nil {
		fatalf("read input: %v", err)
	}

	engine, err := buildEngine(*lexFile)
	if err != nil {
		fatalf("%v", err)
	}

	result, err := run(engine, *mode, raw, ov)
	if err != nil {
		fatalf("%v", err)
	}

	if err := writeJSON(*out, result, *pretty); err != nil {
		fatalf("write output: %v", err)
	}
}

func run(engine *viz.Engine, mode string, raw []byte, ov *viz.Overrides) (any, error) {
	switch mode {
	case "render":
		// Error-state outputs are a pipeline result like any other: the
		// caller gets the JSON and a zero exit. Only unreadable input or
		// unusable flags fail the process.
		return engine.Render(raw, ov), nil
	case "recommend":
		ds := engine.Normalize(raw)
		profiles := engine.Analyze(ds)
		return engine.Recommend(ds, profiles, ov), nil
	case "analyze":
		ds := engine.Normalize(raw)
		return engine.Analyze(ds), nil
	case "normalize":
		return engine.Normalize(raw), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func buildEngine(lexFile string) (*viz.Engine, error) {
	log := logger.New("error")
	if lexFile == "" {
		return viz.NewEngine(log), nil
	}
	set, err := lexicon.LoadFile(lexFile)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", lexFile, err)
	}
	return viz.NewEngine(log, viz.WithLexicons(set)), nil
}

func parseOverrides(chart, inline string) (*viz.Overrides, error) {
	if chart == "" && inline == "" {
		return nil, nil
	}
	var ov viz.Overrides
	if inline != "" {
		if err := json.Unmarshal([]byte(inline), &ov); err != nil {
			return nil, err
		}
	}
	if chart != "" {
		ov.ChartType = chart
	}
	if ov.ChartType != "" && !viz.IsValidKind(ov.ChartType) {
		return nil, fmt.Errorf("unknown chart kind %q", ov.ChartType)
	}
	return &ov, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(path string, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func printKinds(w io.Writer) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNUMERIC\tCATEGORICAL\tDATE\tMAX ROWS\tDESCRIPTION")
	for _, req := range viz.KindRequirements() {
		maxRows := "-"
		if req.MaxRows > 0 {
			maxRows = fmt.Sprintf("%d", req.MaxRows)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			req.Kind, req.MinNumeric, req.MinCategory, req.MinDate, maxRows, req.Description)
	}
	tw.Flush()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "vizctl: "+format+"\n", args...)
	os.Exit(1)
}
