package core

// SimulationVariable is one row of the simulation table.
type SimulationVariable struct {
	Name    string   `json:"name" yaml:"name"`
	Zone    Zone     `json:"zone" yaml:"zone"`
	Default float64  `json:"default" yaml:"default"`
	Min     float64  `json:"min" yaml:"min"`
	Max     float64  `json:"max" yaml:"max"`
	Emotion Emotion  `json:"emotion" yaml:"emotion"`
	Icon    string   `json:"icon" yaml:"icon"`
	Effects []string `json:"effects" yaml:"effects"`
}
