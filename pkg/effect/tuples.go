package effect

import (
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/fields"
)

// DecodeTuples decodes the policy effects region. The blob is split into
// top-level fields with the quote-aware splitter, empty fields are dropped,
// and each field is split on commas: two parts give a key/value, three give
// a key/value with a delay, anything else is kept as a RawToken.
func DecodeTuples(blob string) core.EffectList {
	var out core.EffectList
	for _, field := range fields.Split(blob) {
		if field == "" {
			continue
		}
		parts := strings.Split(field, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch len(parts) {
		case 2:
			out = append(out, core.KeyValueEffect{Key: parts[0], Value: parts[1]})
		case 3:
			out = append(out, core.KeyValueEffect{Key: parts[0], Value: parts[1], Delay: parts[2], HasDelay: true})
		default:
			out = append(out, core.RawToken{Text: field})
		}
	}
	return out
}

// EncodeTuples is the inverse of DecodeTuples. Each effect becomes one field,
// quoted only when it contains a comma.
func EncodeTuples(list []core.Effect) string {
	return fields.Join(TupleFields(list))
}

// TupleFields returns the unquoted field text of each effect, in order.
// Callers that lay fields out in columns themselves use this instead of
// EncodeTuples.
func TupleFields(list []core.Effect) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		switch v := e.(type) {
		case core.KeyValueEffect:
			out = append(out, keyValueText(v))
		case core.GrudgeEffect:
			out = append(out, EncodeGrudge(v))
		case core.RawToken:
			out = append(out, v.Text)
		}
	}
	return out
}

func keyValueText(v core.KeyValueEffect) string {
	if v.HasDelay {
		return v.Key + "," + v.Value + "," + v.Delay
	}
	return v.Key + "," + v.Value
}
