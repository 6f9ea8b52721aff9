package core

// Policy is one row of the policy table.
type Policy struct {
	Name       string     `json:"name" yaml:"name"`
	Slider     string     `json:"slider" yaml:"slider"`
	Flags      Flag       `json:"flags" yaml:"flags"`
	Opposites  []string   `json:"opposites" yaml:"opposites"`
	Department Department `json:"department" yaml:"department"`
	Prereqs    string     `json:"prereqs" yaml:"prereqs"`

	MinCost         float64    `json:"min_cost" yaml:"min_cost"`
	MaxCost         float64    `json:"max_cost" yaml:"max_cost"`
	CostFunction    string     `json:"cost_function" yaml:"cost_function"`
	CostMultipliers EffectList `json:"cost_multipliers" yaml:"cost_multipliers"`

	MinIncome         float64    `json:"min_income" yaml:"min_income"`
	MaxIncome         float64    `json:"max_income" yaml:"max_income"`
	IncomeFunction    string     `json:"income_function" yaml:"income_function"`
	IncomeMultipliers EffectList `json:"income_multipliers" yaml:"income_multipliers"`

	Introduce float64 `json:"introduce" yaml:"introduce"`
	Cancel    float64 `json:"cancel" yaml:"cancel"`
	Raise     float64 `json:"raise" yaml:"raise"`
	Lower     float64 `json:"lower" yaml:"lower"`

	Implementation     int     `json:"implementation" yaml:"implementation"`
	NationalisationGDP float64 `json:"nationalisation_gdp_percentage" yaml:"nationalisation_gdp_percentage"`

	Effects EffectList `json:"effects" yaml:"effects"`
}

// Cost and income function presets offered by the policy editor.
const (
	FunctionLinear  = "0+(1.0*x)"
	FunctionQuartic = "1.0*(x^4)"
)

// DefaultPolicy returns a policy carrying the editor defaults.
func DefaultPolicy(name string) Policy {
	return Policy{
		Name:           name,
		Flags:          FlagNone,
		CostFunction:   FunctionLinear,
		IncomeFunction: FunctionLinear,
	}
}

// Clone returns a deep copy of the policy.
func (p Policy) Clone() Policy {
	c := p
	if p.Opposites != nil {
		c.Opposites = append([]string(nil), p.Opposites...)
	}
	c.CostMultipliers = CloneEffects(p.CostMultipliers)
	c.IncomeMultipliers = CloneEffects(p.IncomeMultipliers)
	c.Effects = CloneEffects(p.Effects)
	return c
}
