package commands

import (
	"fmt"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/effect"
	"github.com/Jocowski/democracy-mod-maker/pkg/fields"
	"github.com/spf13/cobra"
)

// PolicyFlags binds the editable policy fields to command flags. Only
// flags given on the command line are applied to a policy.
type PolicyFlags struct {
	Name               string
	Slider             string
	Flags              string
	Opposites          []string
	Department         string
	Prereqs            string
	MinCost            float64
	MaxCost            float64
	CostFunction       string
	CostMultipliers    string
	MinIncome          float64
	MaxIncome          float64
	IncomeFunction     string
	IncomeMultipliers  string
	Introduce          float64
	Cancel             float64
	Raise              float64
	Lower              float64
	Implementation     int
	NationalisationGDP float64
	Effects            []string
}

func (f *PolicyFlags) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.Name, "name", "", "Policy name")
	fs.StringVar(&f.Slider, "slider", "", "Slider controlling the policy")
	fs.StringVar(&f.Flags, "flags", "", "Flag: none, UNCANCELLABLE, MULTIPLYINCOME, NATIONALISATION")
	fs.StringArrayVar(&f.Opposites, "opposites", nil, "Name of an opposing policy, taken whole (repeatable)")
	fs.StringVar(&f.Department, "department", "", "Department, e.g. ECONOMY")
	fs.StringVar(&f.Prereqs, "prereqs", "", "Prerequisites")
	fs.Float64Var(&f.MinCost, "min-cost", 0, "Minimum cost")
	fs.Float64Var(&f.MaxCost, "max-cost", 0, "Maximum cost")
	fs.StringVar(&f.CostFunction, "cost-function", "", "Cost function: linear, quartic or an expression")
	fs.StringVar(&f.CostMultipliers, "cost-multipliers", "", `Cost multipliers as "key,value;key,value"`)
	fs.Float64Var(&f.MinIncome, "min-income", 0, "Minimum income")
	fs.Float64Var(&f.MaxIncome, "max-income", 0, "Maximum income")
	fs.StringVar(&f.IncomeFunction, "income-function", "", "Income function: linear, quartic or an expression")
	fs.StringVar(&f.IncomeMultipliers, "income-multipliers", "", `Income multipliers as "key,value;key,value"`)
	fs.Float64Var(&f.Introduce, "introduce", 0, "Introduction cost")
	fs.Float64Var(&f.Cancel, "cancel", 0, "Cancellation cost")
	fs.Float64Var(&f.Raise, "raise", 0, "Raise cost")
	fs.Float64Var(&f.Lower, "lower", 0, "Lower cost")
	fs.IntVar(&f.Implementation, "implementation", 0, "Implementation time in turns")
	fs.Float64Var(&f.NationalisationGDP, "nationalisation-gdp", 0, "Nationalisation GDP percentage")
	fs.StringArrayVar(&f.Effects, "effect", nil, `Effect as "Target,Formula[,Delay]" (repeatable)`)
}

// ResolveFunction expands the linear and quartic presets.
func ResolveFunction(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return core.FunctionLinear
	case "quartic":
		return core.FunctionQuartic
	default:
		return strings.TrimSpace(s)
	}
}

// apply copies every changed flag onto p.
func (f *PolicyFlags) apply(cmd *cobra.Command, p *core.Policy) error {
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = strings.TrimSpace(f.Name)
	}
	if changed("slider") {
		p.Slider = f.Slider
	}
	if changed("flags") {
		if !core.IsValidFlag(f.Flags) {
			return fmt.Errorf("unknown flag %q", f.Flags)
		}
		p.Flags = normalizeFlag(f.Flags)
	}
	if changed("opposites") {
		p.Opposites = trimAll(f.Opposites)
	}
	if changed("department") {
		d := strings.ToUpper(f.Department)
		if !core.IsValidDepartment(d) {
			return fmt.Errorf("unknown department %q", f.Department)
		}
		p.Department = core.Department(d)
	}
	if changed("prereqs") {
		p.Prereqs = f.Prereqs
	}
	if changed("min-cost") {
		p.MinCost = f.MinCost
	}
	if changed("max-cost") {
		p.MaxCost = f.MaxCost
	}
	if changed("cost-function") {
		p.CostFunction = ResolveFunction(f.CostFunction)
	}
	if changed("cost-multipliers") {
		p.CostMultipliers = effect.DecodePairs(f.CostMultipliers)
	}
	if changed("min-income") {
		p.MinIncome = f.MinIncome
	}
	if changed("max-income") {
		p.MaxIncome = f.MaxIncome
	}
	if changed("income-function") {
		p.IncomeFunction = ResolveFunction(f.IncomeFunction)
	}
	if changed("income-multipliers") {
		p.IncomeMultipliers = effect.DecodePairs(f.IncomeMultipliers)
	}
	if changed("introduce") {
		p.Introduce = f.Introduce
	}
	if changed("cancel") {
		p.Cancel = f.Cancel
	}
	if changed("raise") {
		p.Raise = f.Raise
	}
	if changed("lower") {
		p.Lower = f.Lower
	}
	if changed("implementation") {
		p.Implementation = f.Implementation
	}
	if changed("nationalisation-gdp") {
		p.NationalisationGDP = f.NationalisationGDP
	}
	if changed("effect") {
		p.Effects = effect.DecodeTuples(fields.Join(f.Effects))
	}
	return nil
}

// normalizeFlag writes none in lower case and the other flags in upper case.
func normalizeFlag(s string) core.Flag {
	if strings.EqualFold(s, string(core.FlagNone)) {
		return core.FlagNone
	}
	return core.Flag(strings.ToUpper(s))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
