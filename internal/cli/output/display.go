package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/effect"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
)

// FreeSlider is shown in place of the step count of a free slider.
const FreeSlider = "FREE SLIDER"

// InfluenceLines renders influences as "1 = name [v1,v2]", numbered from 1.
// Influences without three parts show their raw value.
func InfluenceLines(influences []core.Influence) []string {
	out := make([]string, 0, len(influences))
	for i, inf := range influences {
		if inf.HasTuple() {
			out = append(out, fmt.Sprintf("%d = %s [%s,%s]", i+1, inf.Name, inf.Value1, inf.Value2))
			continue
		}
		out = append(out, fmt.Sprintf("%d = %s", i+1, inf.Raw))
	}
	return out
}

// EffectLines describes each effect on its own line.
func EffectLines(effects []core.Effect) []string {
	return effect.DescribeAll(effects)
}

// SliderSteps renders the step column of a slider.
func SliderSteps(s core.Slider) string {
	switch {
	case s.IsFree():
		return FreeSlider
	case s.Type == core.SliderDiscrete:
		return strconv.Itoa(s.Steps)
	default:
		return ""
	}
}

// SliderRange renders the percentage range of a PERCENTAGE slider.
func SliderRange(s core.Slider) string {
	if s.Type != core.SliderPercentage {
		return ""
	}
	return fmt.Sprintf("%d%% - %d%%", s.MinPercent, s.MaxPercent)
}

// Number formats a float the way the policy table stores it.
func Number(f float64) string {
	return format.FormatNumber(f)
}

// Lines joins multi-line cell content for a table cell. Markdown tables
// cannot hold raw newlines, so lines are joined with <br> there.
func (r *Renderer) Lines(lines []string) string {
	if r.EffectiveMode() == ModeMarkdown {
		return strings.Join(lines, "<br>")
	}
	return strings.Join(lines, "\n")
}
