package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePolicy() core.Policy {
	return core.Policy{
		Name:       "Free Bus Passes",
		Slider:     "BusSlider",
		Flags:      core.Flag("UNCANCELLABLE"),
		Opposites:  []string{"Road Tax", "Tax,Credits"},
		Department: core.Department("TRANSPORT"),
		Prereqs:    "Bus Subsidies",

		MinCost:      1.5,
		MaxCost:      12,
		CostFunction: core.FunctionQuartic,
		CostMultipliers: core.EffectList{
			core.KeyValueEffect{Key: "Retired", Value: "0.5"},
			core.KeyValueEffect{Key: "Retired", Value: "0.7"},
		},

		MinIncome:         0.25,
		MaxIncome:         3,
		IncomeFunction:    core.FunctionLinear,
		IncomeMultipliers: core.EffectList{core.KeyValueEffect{Key: "GDP", Value: "1.1"}},

		Introduce: 10,
		Cancel:    5,
		Raise:     3.5,
		Lower:     -2,

		Implementation:     4,
		NationalisationGDP: 0.05,

		Effects: core.EffectList{
			core.KeyValueEffect{Key: "Commuters", Value: "0.1+(0.2*x)"},
			core.KeyValueEffect{Key: "Pollution", Value: "-0.05*x", Delay: "6", HasDelay: true},
		},
	}
}

func TestPolicies_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		policy core.Policy
	}{
		{name: "full", policy: samplePolicy()},
		{
			name: "no effects",
			policy: func() core.Policy {
				p := samplePolicy()
				p.Effects = nil
				p.CostMultipliers = nil
				return p
			}(),
		},
		{name: "defaults", policy: core.DefaultPolicy("Minimal")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Policies([]core.Policy{tt.policy})
			require.NoError(t, err)

			got := table.ParsePolicies(text)
			require.Len(t, got, 1)
			assert.Equal(t, tt.policy, got[0])
		})
	}
}

func TestPolicies_Layout(t *testing.T) {
	p := core.DefaultPolicy("Minimal")

	text, err := Policies([]core.Policy{p, core.DefaultPolicy("Second")})
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, table.PolicySchema.Header, lines[0])
	assert.False(t, strings.HasSuffix(text, "\n"))

	assert.Equal(t, "#,Minimal,,none,,0,0,0,0,,,0,0,0+(1.0*x),,0,0,0,0+(1.0*x),,0"+strings.Repeat(",", 36), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "#,Second,"))
}

func TestPolicies_EmptyFlagsAndFunctions(t *testing.T) {
	text, err := Policies([]core.Policy{{Name: "Bare"}})
	require.NoError(t, err)

	got := table.ParsePolicies(text)
	require.Len(t, got, 1)
	assert.Equal(t, core.FlagNone, got[0].Flags)
	assert.Equal(t, core.FunctionLinear, got[0].CostFunction)
	assert.Equal(t, core.FunctionLinear, got[0].IncomeFunction)
}

func TestPolicies_NothingToExport(t *testing.T) {
	text, err := Policies(nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Empty(t, text)

	_, err = Policies([]core.Policy{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestPolicies_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *core.Policy)
		column string
	}{
		{name: "empty name", mutate: func(p *core.Policy) { p.Name = " " }, column: table.ColName},
		{name: "quote in name", mutate: func(p *core.Policy) { p.Name = `Say "hi"` }, column: table.ColName},
		{name: "newline in prereqs", mutate: func(p *core.Policy) { p.Prereqs = "a\nb" }, column: table.ColPrereqs},
		{name: "marker in slider", mutate: func(p *core.Policy) { p.Slider = "x#Effects" }, column: table.ColSlider},
		{name: "separator in opposite", mutate: func(p *core.Policy) { p.Opposites = []string{"A, B"} }, column: table.ColOpposites},
		{
			name:   "quote in effect",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.RawToken{Text: `a"b`}} },
			column: ColEffects,
		},
		{
			name:   "comma in effect value",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.KeyValueEffect{Key: "GDP", Value: "max(x,0.5)"}} },
			column: ColEffects,
		},
		{
			name:   "comma in effect key",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.KeyValueEffect{Key: "A,B", Value: "x"}} },
			column: ColEffects,
		},
		{
			name:   "comma in effect delay",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.KeyValueEffect{Key: "A", Value: "x", Delay: "1,2", HasDelay: true}} },
			column: ColEffects,
		},
		{
			name:   "raw effect reads as key value",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.RawToken{Text: "a,b"}} },
			column: ColEffects,
		},
		{
			name:   "empty raw effect",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.RawToken{}} },
			column: ColEffects,
		},
		{
			name:   "padded effect value",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.KeyValueEffect{Key: "GDP", Value: "x "}} },
			column: ColEffects,
		},
		{
			name:   "grudge in effects",
			mutate: func(p *core.Policy) { p.Effects = core.EffectList{core.GrudgeEffect{Target: "A", Value1: "1", Value2: "2"}} },
			column: ColEffects,
		},
		{
			name:   "comma in multiplier key",
			mutate: func(p *core.Policy) { p.CostMultipliers = core.EffectList{core.KeyValueEffect{Key: "A,B", Value: "1"}} },
			column: table.ColCostMultiplier,
		},
		{
			name:   "semicolon in multiplier key",
			mutate: func(p *core.Policy) { p.IncomeMultipliers = core.EffectList{core.KeyValueEffect{Key: "A;B", Value: "1"}} },
			column: table.ColIncomeMultiplier,
		},
		{
			name:   "semicolon in multiplier value",
			mutate: func(p *core.Policy) { p.CostMultipliers = core.EffectList{core.KeyValueEffect{Key: "GDP", Value: "1;2"}} },
			column: table.ColCostMultiplier,
		},
		{
			name:   "semicolon in raw multiplier",
			mutate: func(p *core.Policy) { p.CostMultipliers = core.EffectList{core.RawToken{Text: "a;b"}} },
			column: table.ColCostMultiplier,
		},
		{
			name:   "padded multiplier key",
			mutate: func(p *core.Policy) { p.IncomeMultipliers = core.EffectList{core.KeyValueEffect{Key: " GDP", Value: "1"}} },
			column: table.ColIncomeMultiplier,
		},
		{name: "padded name", mutate: func(p *core.Policy) { p.Name = "Bus " }, column: table.ColName},
		{name: "padded slider", mutate: func(p *core.Policy) { p.Slider = " BusSlider" }, column: table.ColSlider},
		{name: "padded function", mutate: func(p *core.Policy) { p.CostFunction = "x\t" }, column: table.ColCostFunction},
		{name: "padded opposite", mutate: func(p *core.Policy) { p.Opposites = []string{"Road Tax "} }, column: table.ColOpposites},
		{name: "empty opposite", mutate: func(p *core.Policy) { p.Opposites = []string{""} }, column: table.ColOpposites},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePolicy()
			tt.mutate(&p)

			text, err := Policies([]core.Policy{samplePolicy(), p})
			require.Error(t, err)
			assert.Empty(t, text)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.column, fe.Column)
		})
	}
}

func TestPolicies_RoundTripAcceptsParsedRows(t *testing.T) {
	// Rows read from game files are always writable again.
	text := table.PolicySchema.Header + "\n" +
		"#,Odd,,none,,0,0,0,0,,,0,0,0+(1.0*x),\"GDP,1;Raw\",0,0,0,0+(1.0*x),,0,#Effects,\"a,b,c,d\",Solo,Key,Value,2"
	parsed := table.ParsePolicies(text)
	require.Len(t, parsed, 1)

	out, err := Policies(parsed)
	require.NoError(t, err)
	assert.Equal(t, parsed, table.ParsePolicies(out))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "-2", FormatNumber(-2))
	assert.Equal(t, "12.5", FormatNumber(12.5))
}
