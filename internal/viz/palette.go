package viz

// Built-in palettes, name -> ordered color list. Palette resolution is a
// plain lookup; unknown names fall back to "default".
var builtinPalettes = map[string][]string{
	"default": {
		"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
		"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc", "#48b3bd",
	},
	"warm": {
		"#d87c7c", "#919e8b", "#d7ab82", "#6e7074", "#61a0a8",
		"#efa18d", "#787464", "#cc7e63", "#724e58", "#4b565b",
	},
	"cool": {
		"#2ec7c9", "#b6a2de", "#5ab1ef", "#ffb980", "#d87a80",
		"#8d98b3", "#e5cf0d", "#97b552", "#95706d", "#dc69aa",
	},
	"dark": {
		"#dd6b66", "#759aa0", "#e69d87", "#8dc1a9", "#ea7e53",
		"#eedd78", "#73a373", "#73b9bc", "#7289ab", "#91ca8c",
	},
	"mono": {
		"#0f4c81", "#2a6496", "#457cab", "#6094c0", "#7bacd5",
		"#96c4ea", "#b1dcff", "#145a8d", "#1e689a", "#2876a7",
	},
}

// ResolvePalette returns a copy of the named palette, merged custom palettes
// first, falling back to the default palette for unknown names.
func ResolvePalette(name string, custom map[string][]string) []string {
	if colors, ok := custom[name]; ok && len(colors) > 0 {
		return append([]string(nil), colors...)
	}
	if colors, ok := builtinPalettes[name]; ok {
		return append([]string(nil), colors...)
	}
	return append([]string(nil), builtinPalettes["default"]...)
}

// PaletteNames lists the built-in palette names in a stable order.
func PaletteNames() []string {
	return []string{"default", "warm", "cool", "dark", "mono"}
}

// BuiltinPalettes returns a copy of the built-in palette table.
func BuiltinPalettes() map[string][]string {
	out := make(map[string][]string, len(builtinPalettes))
	for name, colors := range builtinPalettes {
		out[name] = append([]string(nil), colors...)
	}
	return out
}
