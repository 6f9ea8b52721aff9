package table

import (
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/effect"
)

// ParsePolicies parses a policy table.
func ParsePolicies(text string) []core.Policy {
	rows := Parse(text, &PolicySchema)
	out := make([]core.Policy, 0, len(rows))
	for _, r := range rows {
		out = append(out, PolicyFromRow(r))
	}
	return out
}

// PolicyFromRow maps one policy row onto a record.
func PolicyFromRow(r Row) core.Policy {
	return core.Policy{
		Name:       r.String(ColName),
		Slider:     r.String(ColSlider),
		Flags:      core.Flag(r.String(ColFlags)),
		Opposites:  SplitOpposites(r.String(ColOpposites)),
		Department: core.Department(r.String(ColDepartment)),
		Prereqs:    r.String(ColPrereqs),

		MinCost:         r.Float(ColMinCost),
		MaxCost:         r.Float(ColMaxCost),
		CostFunction:    r.String(ColCostFunction),
		CostMultipliers: effect.DecodePairs(r.String(ColCostMultiplier)),

		MinIncome:         r.Float(ColMinIncome),
		MaxIncome:         r.Float(ColMaxIncome),
		IncomeFunction:    r.String(ColIncomeFunction),
		IncomeMultipliers: effect.DecodePairs(r.String(ColIncomeMultiplier)),

		Introduce: r.Float(ColIntroduce),
		Cancel:    r.Float(ColCancel),
		Raise:     r.Float(ColRaise),
		Lower:     r.Float(ColLower),

		Implementation:     r.Int(ColImplementation),
		NationalisationGDP: r.Float(ColNationalisation),

		Effects: effect.DecodeTuples(r.Effects),
	}
}

// SplitOpposites splits an opposites column into trimmed, non-empty names.
func SplitOpposites(column string) []string {
	var out []string
	for _, name := range strings.Split(column, OppositesSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// JoinOpposites is the inverse of SplitOpposites.
func JoinOpposites(names []string) string {
	return strings.Join(names, OppositesSeparator)
}

// ParseSliders parses a slider table. Rows without a name or type are
// skipped.
func ParseSliders(text string) []core.Slider {
	var out []core.Slider
	for _, r := range Parse(text, &SliderSchema) {
		s, ok := SliderFromRow(r)
		if ok {
			out = append(out, s)
		}
	}
	return out
}

// SliderFromRow maps one slider row onto a record. It returns false for rows
// without a name or type.
func SliderFromRow(r Row) (core.Slider, bool) {
	s := core.Slider{
		Name: r.String(ColName),
		Type: core.SliderType(r.String(ColType)),
	}
	if s.Name == "" || s.Type == "" {
		return core.Slider{}, false
	}
	switch s.Type {
	case core.SliderDiscrete:
		s.Steps = r.Int(ColValue1)
	case core.SliderPercentage:
		s.MinPercent = r.Int(ColValue1)
		s.MaxPercent = r.Int(ColValue2)
	}
	return s, true
}

// ParseSimulation parses a simulation table. Rows without a name are skipped.
func ParseSimulation(text string) []core.SimulationVariable {
	var out []core.SimulationVariable
	for _, r := range Parse(text, &SimulationSchema) {
		v, ok := SimulationFromRow(r)
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// SimulationFromRow maps one simulation row onto a record. Non-empty fields
// after the icon column are kept, in order, as raw effect tokens.
func SimulationFromRow(r Row) (core.SimulationVariable, bool) {
	v := core.SimulationVariable{
		Name:    r.String(ColName),
		Zone:    core.Zone(r.String(ColZone)),
		Default: r.Float(ColDefault),
		Min:     r.Float(ColMin),
		Max:     r.Float(ColMax),
		Emotion: core.Emotion(r.String(ColEmotion)),
		Icon:    r.String(ColIcon),
	}
	if v.Name == "" {
		return core.SimulationVariable{}, false
	}
	for _, f := range r.From(SimulationSchema.Width()) {
		if f != "" {
			v.Effects = append(v.Effects, f)
		}
	}
	return v, true
}
