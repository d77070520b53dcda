package viz

import (
	"strconv"
	"strings"
	"time"

	"github.com/vizorhq/vizor-core/internal/viz/lexicon"
)

// Analyze classifies every dataset column from a bounded value sample plus
// naming hints. Classification priority, first match wins:
//
//  1. Numeric: every sampled value is a number or a numeric string.
//  2. Date: the column name carries date vocabulary, or every sampled value
//     is an ISO-like date prefix, or parses as a date with length > 4.
//  3. Categorical: everything else.
//
// A column whose entire sample is null gets ColumnUnclassified and counts
// toward no bucket; the recommender ignores it entirely.
func Analyze(ds *Dataset, lex *lexicon.Set) Profiles {
	if ds == nil {
		return nil
	}
	profiles := make(Profiles, 0, len(ds.Columns))
	for _, name := range ds.Columns {
		profiles = append(profiles, ColumnProfile{
			Name: name,
			Type: classifyColumn(name, sampleColumn(ds, name), lex),
		})
	}
	return profiles
}

// sampleColumn collects up to analyzeSampleSize non-null values from the top
// of the column.
func sampleColumn(ds *Dataset, name string) []any {
	sample := make([]any, 0, analyzeSampleSize)
	for _, row := range ds.Rows {
		v := row[name]
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) >= analyzeSampleSize {
			break
		}
	}
	return sample
}

func classifyColumn(name string, sample []any, lex *lexicon.Set) ColumnType {
	if len(sample) == 0 {
		return ColumnUnclassified
	}
	if allNumeric(sample) {
		return ColumnNumeric
	}
	// A date-vocabulary name overrides value-based failure.
	if lex.MatchDateColumn(name) || allDates(sample) {
		return ColumnDate
	}
	return ColumnCategorical
}

func allNumeric(sample []any) bool {
	for _, v := range sample {
		if !isNumericValue(v) {
			return false
		}
	}
	return true
}

func isNumericValue(v any) bool {
	switch x := v.(type) {
	case float64:
		return true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

func allDates(sample []any) bool {
	for _, v := range sample {
		s, ok := v.(string)
		if !ok || !isDateString(s) {
			return false
		}
	}
	return true
}

// Layouts tried by the generic date parser, longest first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
	"2006/01",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// isDateString accepts ISO-like prefixes (YYYY-MM-DD or YYYY/MM/DD) and, for
// longer strings, anything the layout table parses. The length > 4 guard
// keeps bare small integers like "2024" from reading as dates.
func isDateString(s string) bool {
	s = strings.TrimSpace(s)
	if hasISODatePrefix(s) {
		return true
	}
	if len(s) <= 4 {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// hasISODatePrefix matches YYYY-MM-DD and YYYY/MM/DD prefixes, so datetime
// strings like "2024-01-02 15:04" qualify too.
func hasISODatePrefix(s string) bool {
	if len(s) < 10 {
		return false
	}
	sep := s[4]
	if sep != '-' && sep != '/' {
		return false
	}
	if s[7] != sep {
		return false
	}
	for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
