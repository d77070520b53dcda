package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk override format. Mode "extend" (the default) appends
// to the built-in vocabulary; "replace" discards it.
type File struct {
	Mode         string   `yaml:"mode"`
	DateKeywords []string `yaml:"date_keywords"`
	FunnelStages []string `yaml:"funnel_stages"`
}

// LoadFile reads a YAML lexicon file and resolves it against the built-in
// defaults. An empty path returns the defaults untouched.
func LoadFile(path string) (*Set, error) {
	if path == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	return Parse(raw)
}

// Parse resolves raw YAML override content against the defaults.
func Parse(raw []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}
	return f.Resolve(), nil
}

// Resolve applies the file over the built-in defaults per its mode.
func (f *File) Resolve() *Set {
	if f.Mode == "replace" {
		return &Set{
			DateKeywords: append([]string(nil), f.DateKeywords...),
			FunnelStages: append([]string(nil), f.FunnelStages...),
		}
	}
	set := Defaults()
	set.DateKeywords = append(set.DateKeywords, f.DateKeywords...)
	set.FunnelStages = append(set.FunnelStages, f.FunnelStages...)
	return set
}
