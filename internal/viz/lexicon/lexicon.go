// Package lexicon holds the keyword tables the column analyzer and chart
// recommender match against. The tables are plain data so deployments can
// extend them with localized vocabulary without touching engine code.
package lexicon

import (
	"strings"
)

// Set bundles the keyword tables used by one engine instance.
type Set struct {
	// DateKeywords mark a column as date-typed by name, regardless of
	// whether its sampled values parse as dates.
	DateKeywords []string `yaml:"date_keywords" json:"date_keywords"`

	// FunnelStages identify categorical values that describe conversion
	// funnel steps (visit -> register -> pay ...).
	FunnelStages []string `yaml:"funnel_stages" json:"funnel_stages"`
}

// Built-in vocabulary. English plus the localized equivalents observed in
// upstream datasets (zh, es, de, ja).
var (
	defaultDateKeywords = []string{
		"date", "time", "datetime", "timestamp", "day", "month", "year",
		"week", "quarter", "period",
		"日期", "时间", "年份", "月份", "年", "月", "日", "季度", "星期",
		"fecha", "hora", "mes", "año", "día",
		"datum", "zeit", "jahr", "monat", "tag",
		"日付", "時間", "年月",
	}

	defaultFunnelStages = []string{
		"visit", "view", "click", "register", "signup", "sign up",
		"activate", "order", "pay", "paid", "purchase", "convert", "conversion",
		"retain", "stage", "step",
		"访问", "浏览", "点击", "注册", "激活", "下单", "付费", "购买",
		"转化", "留存", "阶段",
		"visita", "registro", "pago", "compra", "conversión", "etapa",
		"besuch", "registrierung", "zahlung", "kauf", "stufe",
		"訪問", "登録", "購入", "注文", "転換",
	}
)

// Defaults returns a fresh Set holding the built-in vocabulary. The returned
// slices are copies; callers may append to them freely.
func Defaults() *Set {
	return &Set{
		DateKeywords: append([]string(nil), defaultDateKeywords...),
		FunnelStages: append([]string(nil), defaultFunnelStages...),
	}
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	if s == nil {
		return Defaults()
	}
	return &Set{
		DateKeywords: append([]string(nil), s.DateKeywords...),
		FunnelStages: append([]string(nil), s.FunnelStages...),
	}
}

// MatchDateColumn reports whether a column name carries date vocabulary.
// Keywords of four runes or more match as case-insensitive substrings, so
// "created_time" and "OrderDate" both match. Shorter keywords ("day", "mes",
// "tag", the CJK single characters) only match whole tokens of the name,
// split on underscore, hyphen, and space — otherwise incidental fragments
// like the "tag" in "stage" or the "mes" in "names" would force columns into
// the date bucket.
func (s *Set) MatchDateColumn(name string) bool {
	if s == nil || name == "" {
		return false
	}
	lower := strings.ToLower(name)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for _, kw := range s.DateKeywords {
		if kw == "" {
			continue
		}
		kwLower := strings.ToLower(kw)
		if len([]rune(kwLower)) >= 4 {
			if strings.Contains(lower, kwLower) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kwLower {
				return true
			}
		}
	}
	return false
}

// MatchFunnelStage reports whether a categorical value names a funnel stage.
// Matching is a case-insensitive substring test on the value, so "Paid users"
// matches the "paid" stage keyword.
func (s *Set) MatchFunnelStage(value string) bool {
	if s == nil || value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, kw := range s.FunnelStages {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// AllFunnelStages reports whether every value in the list matches the funnel
// vocabulary. An empty list never qualifies.
func (s *Set) AllFunnelStages(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !s.MatchFunnelStage(v) {
			return false
		}
	}
	return true
}
