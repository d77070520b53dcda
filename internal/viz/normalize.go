package viz

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Accepted payload shapes, checked in order:
//
//	{rows: [[...], ...], columns: [...]}   positional rows
//	{data: [{...}, ...], columns?: [...]}  record rows, columns optional
//	[{...}, ...]                           bare record array
//	{result: [{...}, ...]}                 wrapped record array
//
// Anything else normalizes to an empty Dataset. Normalize never fails.
//
// An {error: "..."} object is not a data shape; UpstreamErrorMessage surfaces
// it before normalization so the engine can short-circuit to the error state.

// UpstreamErrorMessage inspects raw payload JSON for the {error: string}
// short-circuit shape.
func UpstreamErrorMessage(raw []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	rawErr, ok := obj["error"]
	if !ok {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(rawErr, &msg); err != nil || msg == "" {
		return "", false
	}
	return msg, true
}

// Normalize converts raw payload JSON in any accepted shape into the
// canonical Dataset. Unrecognized shapes, malformed JSON, and absent data all
// yield an empty Dataset; Normalize never returns an error.
func Normalize(raw []byte) *Dataset {
	// Bare record array.
	var bare []json.RawMessage
	if err := json.Unmarshal(raw, &bare); err == nil {
		return fromRecords(bare, nil)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return emptyDataset()
	}

	// Positional rows need both keys; otherwise the record branches run.
	if rawRows, ok := obj["rows"]; ok {
		if cols := decodeStringList(obj["columns"]); cols != nil {
			var rows [][]json.RawMessage
			if err := json.Unmarshal(rawRows, &rows); err == nil {
				return fromPositional(rows, cols)
			}
		}
	}

	if rawData, ok := obj["data"]; ok {
		var recs []json.RawMessage
		if err := json.Unmarshal(rawData, &recs); err == nil {
			return fromRecords(recs, decodeStringList(obj["columns"]))
		}
	}

	if rawResult, ok := obj["result"]; ok {
		var recs []json.RawMessage
		if err := json.Unmarshal(rawResult, &recs); err == nil {
			return fromRecords(recs, nil)
		}
	}

	return emptyDataset()
}

func emptyDataset() *Dataset {
	return &Dataset{Columns: []string{}, Rows: []Row{}}
}

func fromPositional(rows [][]json.RawMessage, cols []string) *Dataset {
	cols = dedupeColumns(cols)
	ds := &Dataset{Columns: cols, Rows: make([]Row, 0, len(rows))}
	for _, cells := range rows {
		row := make(Row, len(cols))
		for i, name := range cols {
			if i < len(cells) {
				row[name] = decodeCell(cells[i])
			} else {
				// Short rows pad with nil; extra cells drop.
				row[name] = nil
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// fromRecords builds a dataset from an array of JSON objects. When cols is
// nil the column list comes from the first object record's keys, in their
// JSON document order.
func fromRecords(records []json.RawMessage, cols []string) *Dataset {
	if cols == nil {
		for _, rec := range records {
			if keys := objectKeys(rec); keys != nil {
				cols = keys
				break
			}
		}
	}
	if cols == nil {
		cols = []string{}
	}
	cols = dedupeColumns(cols)

	ds := &Dataset{Columns: cols, Rows: make([]Row, 0, len(records))}
	if len(cols) == 0 {
		return ds
	}
	for _, rec := range records {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue // non-object entries are skipped, not fatal
		}
		row := make(Row, len(cols))
		for _, name := range cols {
			if cell, ok := obj[name]; ok {
				row[name] = decodeCell(cell)
			} else {
				row[name] = nil
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// objectKeys returns the keys of a single JSON object in document order, or
// nil when raw is not an object. encoding/json maps do not keep key order,
// so the object is token-scanned instead.
func objectKeys(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	keys := []string{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := keyTok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

// decodeStringList parses a raw JSON value as a string array. Absent values
// and non-string-array shapes return nil, which the shape checks treat as
// "no column list given".
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func dedupeColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue // first occurrence wins
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// decodeCell parses one JSON cell into the scalar vocabulary: float64,
// string, or nil. Booleans become the strings "true"/"false"; composite
// values keep their JSON text as a string.
func decodeCell(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case nil:
		return nil
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return string(bytes.TrimSpace(raw))
	}
}
