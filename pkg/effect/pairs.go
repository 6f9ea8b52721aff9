package effect

import (
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
)

// pairSeparator separates entries of a pair list.
const pairSeparator = ";"

// DecodePairs decodes a semicolon pair list. Each non-empty entry is split
// once on the first comma into a key/value; an entry without a comma is kept
// as a RawToken. Keys need not be unique.
func DecodePairs(text string) core.EffectList {
	var out core.EffectList
	for _, token := range strings.Split(text, pairSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, ok := strings.Cut(token, ",")
		if !ok {
			out = append(out, core.RawToken{Text: token})
			continue
		}
		out = append(out, core.KeyValueEffect{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return out
}

// EncodePairs is the inverse of DecodePairs. Grudge effects, which the pair
// grammar cannot express, are written in their call form.
func EncodePairs(list []core.Effect) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		switch v := e.(type) {
		case core.KeyValueEffect:
			parts = append(parts, v.Key+","+v.Value)
		case core.GrudgeEffect:
			parts = append(parts, EncodeGrudge(v))
		case core.RawToken:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, pairSeparator)
}
