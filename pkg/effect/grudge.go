package effect

import (
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
)

const (
	grudgePrefix = "CreateGrudge("
	grudgeSuffix = ")"
)

// DecodeGrudge decodes one CreateGrudge(target,value1,value2) call. Any
// other shape, including a call with the wrong number of arguments, is
// returned as a RawToken of the trimmed input.
func DecodeGrudge(token string) core.Effect {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, grudgePrefix) || !strings.HasSuffix(token, grudgeSuffix) {
		return core.RawToken{Text: token}
	}

	inner := token[len(grudgePrefix) : len(token)-len(grudgeSuffix)]
	args := strings.Split(inner, ",")
	if len(args) != 3 {
		return core.RawToken{Text: token}
	}

	return core.GrudgeEffect{
		Target: strings.TrimSpace(args[0]),
		Value1: strings.TrimSpace(args[1]),
		Value2: strings.TrimSpace(args[2]),
	}
}

// DecodeGrudges decodes a semicolon separated list of grudge calls, as found
// in a dilemma option's OnImplement value. Empty entries are dropped.
func DecodeGrudges(text string) core.EffectList {
	var out core.EffectList
	for _, token := range strings.Split(text, pairSeparator) {
		if strings.TrimSpace(token) == "" {
			continue
		}
		out = append(out, DecodeGrudge(token))
	}
	return out
}

// EncodeGrudge writes the call form of g.
func EncodeGrudge(g core.GrudgeEffect) string {
	return grudgePrefix + g.Target + "," + g.Value1 + "," + g.Value2 + grudgeSuffix
}

// EncodeGrudges is the inverse of DecodeGrudges.
func EncodeGrudges(list []core.Effect) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		switch v := e.(type) {
		case core.GrudgeEffect:
			parts = append(parts, EncodeGrudge(v))
		case core.KeyValueEffect:
			parts = append(parts, keyValueText(v))
		case core.RawToken:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, pairSeparator)
}
