package dilemma

import (
	"testing"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const airport = `[dilemma]
name = Airport Expansion
guiname=ignored

[influences]
0=Environmentalists,-0.2,0.1
1 = Commuters,0.3,0
x=ignored
2=Tourism

[option1]
Name=Approve
OnImplement=CreateGrudge(Environmentalists,10,-5);CreateGrudge(Commuters,4,2)

[option2]
OnImplement = Nothing
OnImplement=CreateGrudge(Farmers,1,2)
`

func TestParse(t *testing.T) {
	d := Parse(airport, "AirportExpansion")

	assert.Equal(t, "AirportExpansion", d.ID)
	assert.Equal(t, "Airport Expansion", d.Name)

	require.Len(t, d.Influences, 3)
	assert.Equal(t, core.Influence{Raw: "Environmentalists,-0.2,0.1", Name: "Environmentalists", Value1: "-0.2", Value2: "0.1"}, d.Influences[0])
	assert.Equal(t, "Commuters", d.Influences[1].Name)
	assert.Equal(t, core.Influence{Raw: "Tourism"}, d.Influences[2])
	assert.False(t, d.Influences[2].HasTuple())

	require.Len(t, d.Options, 2)
	assert.Equal(t, "option1", d.Options[0].ID)
	assert.Equal(t, core.EffectList{
		core.GrudgeEffect{Target: "Environmentalists", Value1: "10", Value2: "-5"},
		core.GrudgeEffect{Target: "Commuters", Value1: "4", Value2: "2"},
	}, d.Options[0].Effects)

	// last OnImplement wins
	assert.Equal(t, "CreateGrudge(Farmers,1,2)", d.Options[1].RawEffects)
}

func TestParse_OptionsInAppearanceOrder(t *testing.T) {
	text := "[dilemma]\nname=Gap\n[option5]\nOnImplement=CreateGrudge(A,1,2)\n[option1]\nOnImplement=CreateGrudge(B,3,4)\n"

	d := Parse(text, "Gap")

	require.Len(t, d.Options, 2)
	assert.Equal(t, "option5", d.Options[0].ID)
	assert.Equal(t, "option1", d.Options[1].ID)
	assert.Equal(t, "CreateGrudge(B,3,4)", d.Options[1].RawEffects)
}

func TestParse_Tolerant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want core.Dilemma
	}{
		{
			name: "empty text",
			text: "",
			want: core.Dilemma{ID: "x"},
		},
		{
			name: "missing name",
			text: "[dilemma]\nfoo=bar\n",
			want: core.Dilemma{ID: "x"},
		},
		{
			name: "junk lines and unknown sections",
			text: "garbage\n[extra]\nname=nope\n[dilemma]\nname=A=B\n",
			want: core.Dilemma{ID: "x", Name: "A=B"},
		},
		{
			name: "key before any section",
			text: "name=orphan\n",
			want: core.Dilemma{ID: "x"},
		},
		{
			name: "crlf line endings",
			text: "[dilemma]\r\nname=Windows\r\n[option1]\r\nOnImplement=raw\r\n",
			want: core.Dilemma{
				ID:      "x",
				Name:    "Windows",
				Options: []core.Option{{ID: "option1", RawEffects: "raw", Effects: core.EffectList{core.RawToken{Text: "raw"}}}},
			},
		},
		{
			name: "last name wins",
			text: "[dilemma]\nname=First\nname=Second\n",
			want: core.Dilemma{ID: "x", Name: "Second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text, "x"))
		})
	}
}

func TestIDFromFilename(t *testing.T) {
	assert.Equal(t, "Adoption", IDFromFilename("Adoption.txt"))
	assert.Equal(t, "Airport", IDFromFilename("data/simulation/dilemmas/Airport.txt"))
	assert.Equal(t, "README.md", IDFromFilename("README.md"))
}
