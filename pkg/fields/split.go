// Package fields provides the quote-aware delimiter tokenizer shared by
// every table and cell parser.
//
// The grammar is deliberately small: a double quote toggles quoting and is
// never part of a field, a separator splits fields only outside quotes, and
// there is no escape sequence for a literal quote.
package fields

import "strings"

// Separator is the column separator of the game tables.
const Separator = ','

// state is the tokenizer mode.
type state int

const (
	outsideQuotes state = iota
	insideQuotes
)

// Split tokenizes line on unquoted commas and returns the trimmed fields.
// The final field is always emitted, so an empty line yields one empty field.
func Split(line string) []string {
	return SplitOn(line, Separator)
}

// SplitOn is Split with a caller-chosen separator.
func SplitOn(line string, sep rune) []string {
	var (
		out  []string
		acc  strings.Builder
		mode = outsideQuotes
	)

	emit := func() {
		out = append(out, strings.TrimSpace(acc.String()))
		acc.Reset()
	}

	for _, r := range line {
		switch {
		case r == '"':
			if mode == outsideQuotes {
				mode = insideQuotes
			} else {
				mode = outsideQuotes
			}
		case r == sep && mode == outsideQuotes:
			emit()
		default:
			acc.WriteRune(r)
		}
	}
	emit()

	return out
}

// Quote wraps value in double quotes when it contains a comma, so that Split
// returns it as a single field. Other values are returned unchanged.
func Quote(value string) string {
	if strings.ContainsRune(value, Separator) {
		return `"` + value + `"`
	}
	return value
}

// Join quotes each value as needed and joins them with commas.
// Split(Join(v)) == v for any values without quotes or surrounding spaces.
func Join(values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteRune(Separator)
		}
		b.WriteString(Quote(v))
	}
	return b.String()
}
