package viz

// KindRequirement documents what a chart kind needs from a dataset, for the
// discovery endpoint and the CLI help output.
type KindRequirement struct {
	Kind        ChartKind `json:"kind"`
	MinNumeric  int       `json:"min_numeric"`
	MinCategory int       `json:"min_categorical"`
	MinDate     int       `json:"min_date"`
	MaxRows     int       `json:"max_rows,omitempty"`
	Adaptable   bool      `json:"adaptable"`
	Description string    `json:"description"`
}

// KindRequirements lists the column requirements per kind, in cascade order.
func KindRequirements() []KindRequirement {
	return []KindRequirement{
		{Kind: KindPie, MinNumeric: 1, MinCategory: 1, MaxRows: pieMaxRows, Adaptable: true,
			Description: "one slice per row from a category/value pair"},
		{Kind: KindLine, MinNumeric: 1, MinDate: 1, Adaptable: true,
			Description: "one series per numeric column over a date axis"},
		{Kind: KindArea, MinNumeric: 1, MinDate: 1, Adaptable: true,
			Description: "line with a fill-opacity gradient"},
		{Kind: KindScatter, MinNumeric: 2, Adaptable: true,
			Description: "point pairs from the first two numeric columns"},
		{Kind: KindHeatmap, MinNumeric: 1, MinCategory: 2, Adaptable: true,
			Description: "cell intensity over two categorical axes"},
		{Kind: KindFunnel, MinNumeric: 1, MinCategory: 1, Adaptable: true,
			Description: "conversion stages sorted descending by value"},
		{Kind: KindRadar, MinNumeric: 3, MinCategory: 1, MaxRows: radarMaxRows, Adaptable: true,
			Description: "one indicator per numeric column, one polygon per category"},
		{Kind: KindBar, MinNumeric: 1, Adaptable: true,
			Description: "default categorized fallback; index-labeled without categories"},
		{Kind: KindTreemap, MinNumeric: 1, MinCategory: 1, Adaptable: true,
			Description: "area-proportional tiles per category"},
		{Kind: KindSunburst, MinNumeric: 1, MinCategory: 1, Adaptable: true,
			Description: "ring segments per category, nested when two levels exist"},
		{Kind: KindGauge, MinNumeric: 1,
			Description: "single dial from the first row's first numeric column"},
		{Kind: KindSankey, MinNumeric: 1, MinCategory: 2,
			Description: "weighted flows between two categorical columns"},
		{Kind: KindTable,
			Description: "plain table; universal fallback"},
	}
}
