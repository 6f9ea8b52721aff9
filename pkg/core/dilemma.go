package core

// Dilemma is an event definition offering the player mutually exclusive options.
type Dilemma struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Influences []Influence `json:"influences" yaml:"influences"`
	Options    []Option    `json:"options" yaml:"options"`
}

// Influence is a positional weighting tuple. Raw is the authored value;
// Name, Value1 and Value2 are its first three comma-separated parts when
// present. No meaning is attached beyond position.
type Influence struct {
	Raw    string `json:"raw" yaml:"raw"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Value1 string `json:"value1,omitempty" yaml:"value1,omitempty"`
	Value2 string `json:"value2,omitempty" yaml:"value2,omitempty"`
}

// HasTuple reports whether the influence carried at least three parts.
func (i Influence) HasTuple() bool {
	return i.Name != "" || i.Value1 != "" || i.Value2 != ""
}

// Option is one selectable branch of a Dilemma. ID is the source section
// name, RawEffects the authored OnImplement value and Effects its decoding.
type Option struct {
	ID         string     `json:"id" yaml:"id"`
	RawEffects string     `json:"raw_effects" yaml:"raw_effects"`
	Effects    EffectList `json:"effects" yaml:"effects"`
}
