// Package table parses the marker-prefixed game tables (policies, sliders,
// simulation variables) into records.
//
// Column identity is positional. Each table is described once by a Schema
// that maps a column index to a name and a default; the parser here and the
// serializer in pkg/format both read column positions from the same Schema.
package table

import "strings"

// RowMarker is the first character of every data row.
const RowMarker = "#"

// Column is one positional column of a table.
type Column struct {
	Name    string
	Index   int
	Default string
}

// Schema describes the fixed column layout of a table.
type Schema struct {
	Name    string
	Version int
	Columns []Column

	// EffectsMarker introduces the variable-length effects region. Empty
	// when the table has none.
	EffectsMarker string

	// Header is the literal header line written on export.
	Header string

	// TrailingColumns is the number of empty columns appended to every
	// exported row.
	TrailingColumns int
}

// Column returns the column called name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Index returns the position of the column called name, or -1.
func (s *Schema) Index(name string) int {
	if c, ok := s.Column(name); ok {
		return c.Index
	}
	return -1
}

// Width is the number of fixed columns, i.e. one past the highest index.
func (s *Schema) Width() int {
	w := 0
	for _, c := range s.Columns {
		if c.Index+1 > w {
			w = c.Index + 1
		}
	}
	return w
}

// EffectsColumn is the column value that opens the effects region, which is
// the marker without its trailing separator.
func (s *Schema) EffectsColumn() string {
	return strings.TrimSuffix(s.EffectsMarker, ",")
}

func columns(names ...string) []Column {
	out := make([]Column, 0, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		out = append(out, Column{Name: n, Index: i})
	}
	return out
}

// Policy table column names.
const (
	ColMarker           = "marker"
	ColName             = "name"
	ColSlider           = "slider"
	ColFlags            = "flags"
	ColOpposites        = "opposites"
	ColIntroduce        = "introduce"
	ColCancel           = "cancel"
	ColRaise            = "raise"
	ColLower            = "lower"
	ColDepartment       = "department"
	ColPrereqs          = "prereqs"
	ColMinCost          = "mincost"
	ColMaxCost          = "maxcost"
	ColCostFunction     = "costfunction"
	ColCostMultiplier   = "costmultiplier"
	ColImplementation   = "implementation"
	ColMinIncome        = "minincome"
	ColMaxIncome        = "maxincome"
	ColIncomeFunction   = "incomefunction"
	ColIncomeMultiplier = "incomemultiplier"
	ColNationalisation  = "nationalisation"
)

// Slider and simulation column names not shared with the policy table.
const (
	ColType    = "type"
	ColValue1  = "value1"
	ColValue2  = "value2"
	ColZone    = "zone"
	ColDefault = "default"
	ColMin     = "min"
	ColMax     = "max"
	ColEmotion = "emotion"
	ColIcon    = "icon"
)

// EffectsMarker opens the effects region of a policy row.
const EffectsMarker = "#Effects,"

// OppositesSeparator joins opposite policy names inside one column.
const OppositesSeparator = ", "

// PolicySchema is version 1 of the policy table.
var PolicySchema = Schema{
	Name:    "policies",
	Version: 1,
	Columns: columns(
		ColMarker, ColName, ColSlider, ColFlags, ColOpposites,
		ColIntroduce, ColCancel, ColRaise, ColLower,
		ColDepartment, ColPrereqs,
		ColMinCost, ColMaxCost, ColCostFunction, ColCostMultiplier,
		ColImplementation,
		ColMinIncome, ColMaxIncome, ColIncomeFunction, ColIncomeMultiplier,
		ColNationalisation,
	),
	EffectsMarker: EffectsMarker,
	Header: ",name,slider,flags,opposites,introduce,cancel,raise,lower,department,prereqs," +
		"mincost,maxcost,costfunction,cost multiplier,implementation," +
		"minincome,maxincome,incomefunction,incomemultiplier,nationalisation GDP percentage" +
		strings.Repeat(",", 18),
	TrailingColumns: 36,
}

// SliderSchema is version 1 of the slider table.
var SliderSchema = Schema{
	Name:    "sliders",
	Version: 1,
	Columns: columns(ColMarker, ColName, ColType, ColValue1, ColValue2),
}

// SimulationSchema is version 1 of the simulation table. Columns after icon
// are effect tokens.
var SimulationSchema = Schema{
	Name:    "simulation",
	Version: 1,
	Columns: columns(ColMarker, ColName, ColZone, ColDefault, ColMin, ColMax, ColEmotion, ColIcon),
}
