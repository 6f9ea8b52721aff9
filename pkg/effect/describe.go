package effect

import (
	"fmt"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
)

// Describe renders an effect in the short human form used by listings:
// "Farmers: [10,-5]" for grudges, "GDP: 0.1*x [4]" for delayed key/values.
func Describe(e core.Effect) string {
	switch v := e.(type) {
	case core.GrudgeEffect:
		return fmt.Sprintf("%s: [%s,%s]", v.Target, v.Value1, v.Value2)
	case core.KeyValueEffect:
		if v.HasDelay && v.Delay != "" {
			return fmt.Sprintf("%s: %s [%s]", v.Key, v.Value, v.Delay)
		}
		return fmt.Sprintf("%s: %s", v.Key, v.Value)
	case core.RawToken:
		return v.Text
	default:
		return ""
	}
}

// DescribeAll describes each effect in order.
func DescribeAll(list []core.Effect) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, Describe(e))
	}
	return out
}
