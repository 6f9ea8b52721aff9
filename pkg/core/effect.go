package core

import (
	"encoding/json"
	"fmt"
)

// Effect is a decoded action found in a table cell or dilemma option.
//
// The set of implementations is closed: GrudgeEffect, KeyValueEffect and
// RawToken. Consumers type-switch and must handle RawToken, which carries
// any input the codec did not recognize.
type Effect interface {
	isEffect()
}

// GrudgeEffect is a call-style CreateGrudge(target,value1,value2) effect.
type GrudgeEffect struct {
	Target string `json:"target" yaml:"target"`
	Value1 string `json:"value1" yaml:"value1"`
	Value2 string `json:"value2" yaml:"value2"`
}

// KeyValueEffect is a key/value adjustment with an optional delay.
// Multiplier entries use the same shape without a delay.
type KeyValueEffect struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Delay    string `json:"delay,omitempty" yaml:"delay,omitempty"`
	HasDelay bool   `json:"has_delay,omitempty" yaml:"has_delay,omitempty"`
}

// RawToken is unparsed text passed through unchanged.
type RawToken struct {
	Text string `json:"text" yaml:"text"`
}

func (GrudgeEffect) isEffect()   {}
func (KeyValueEffect) isEffect() {}
func (RawToken) isEffect()       {}

// EffectKind names the variant of an effect ("grudge", "keyvalue", "raw").
func EffectKind(e Effect) string {
	switch e.(type) {
	case GrudgeEffect:
		return "grudge"
	case KeyValueEffect:
		return "keyvalue"
	case RawToken:
		return "raw"
	default:
		return "unknown"
	}
}

// CloneEffects returns a copy of the slice. Effect values are immutable,
// so a shallow copy is a deep copy.
func CloneEffects(effects []Effect) []Effect {
	if effects == nil {
		return nil
	}
	out := make([]Effect, len(effects))
	copy(out, effects)
	return out
}

// EffectList is an ordered effect sequence that survives a JSON round trip.
// Each element is encoded as an object with a "kind" discriminator.
type EffectList []Effect

type effectJSON struct {
	Kind     string `json:"kind" yaml:"kind"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	Value1   string `json:"value1,omitempty" yaml:"value1,omitempty"`
	Value2   string `json:"value2,omitempty" yaml:"value2,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Delay    string `json:"delay,omitempty" yaml:"delay,omitempty"`
	HasDelay bool   `json:"has_delay,omitempty" yaml:"has_delay,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l EffectList) MarshalJSON() ([]byte, error) {
	out, err := l.tagged()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// MarshalYAML renders the list with the same "kind" discriminator.
func (l EffectList) MarshalYAML() (interface{}, error) {
	return l.tagged()
}

func (l EffectList) tagged() ([]effectJSON, error) {
	out := make([]effectJSON, 0, len(l))
	for _, e := range l {
		switch v := e.(type) {
		case GrudgeEffect:
			out = append(out, effectJSON{Kind: "grudge", Target: v.Target, Value1: v.Value1, Value2: v.Value2})
		case KeyValueEffect:
			out = append(out, effectJSON{Kind: "keyvalue", Key: v.Key, Value: v.Value, Delay: v.Delay, HasDelay: v.HasDelay})
		case RawToken:
			out = append(out, effectJSON{Kind: "raw", Text: v.Text})
		default:
			return nil, fmt.Errorf("unsupported effect type %T", e)
		}
	}
	return out, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *EffectList) UnmarshalJSON(data []byte) error {
	var raw []effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	list := make(EffectList, 0, len(raw))
	for i, r := range raw {
		switch r.Kind {
		case "grudge":
			list = append(list, GrudgeEffect{Target: r.Target, Value1: r.Value1, Value2: r.Value2})
		case "keyvalue":
			list = append(list, KeyValueEffect{Key: r.Key, Value: r.Value, Delay: r.Delay, HasDelay: r.HasDelay || r.Delay != ""})
		case "raw", "":
			list = append(list, RawToken{Text: r.Text})
		default:
			return fmt.Errorf("effect %d: unknown kind %q", i, r.Kind)
		}
	}
	*l = list
	return nil
}
