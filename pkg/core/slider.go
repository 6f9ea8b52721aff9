package core

// SliderType is the kind of a policy-strength control.
type SliderType string

// Slider types.
const (
	SliderDiscrete   SliderType = "DISCRETE"
	SliderPercentage SliderType = "PERCENTAGE"
)

// Slider is one row of the slider table.
//
// A DISCRETE slider carries Steps, where 0 means a free (continuous) slider.
// A PERCENTAGE slider carries MinPercent and MaxPercent. Sliders of any
// other type keep their Type and leave the numeric fields zero.
type Slider struct {
	Name       string     `json:"name" yaml:"name"`
	Type       SliderType `json:"type" yaml:"type"`
	Steps      int        `json:"steps" yaml:"steps"`
	MinPercent int        `json:"min_percent" yaml:"min_percent"`
	MaxPercent int        `json:"max_percent" yaml:"max_percent"`
}

// IsFree reports whether the slider is a DISCRETE slider without steps.
func (s Slider) IsFree() bool {
	return s.Type == SliderDiscrete && s.Steps == 0
}
