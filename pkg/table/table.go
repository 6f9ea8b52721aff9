package table

import (
	"strconv"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/fields"
)

// Row is one data row of a table.
type Row struct {
	schema *Schema

	// Fields are the quote-aware split of the whole line.
	Fields []string

	// Effects is the verbatim text after the first effects marker, or "".
	Effects string
}

// IsDataRow reports whether line is a data row.
func IsDataRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), RowMarker)
}

// Parse returns the data rows of text in order. Header, blank, bare marker
// and any other non-marker lines are skipped.
func Parse(text string, schema *Schema) []Row {
	var rows []Row
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !IsDataRow(line) {
			continue
		}
		r := ParseRow(line, schema)
		if len(r.Fields) < minFields {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

// minFields is the marker plus at least one value; shorter rows are skipped.
const minFields = 2

// ParseRow splits a single data row.
func ParseRow(line string, schema *Schema) Row {
	r := Row{schema: schema, Fields: fields.Split(line)}
	if schema.EffectsMarker != "" {
		if _, after, ok := strings.Cut(line, schema.EffectsMarker); ok {
			r.Effects = after
		}
	}
	return r
}

// Field returns the field at index i, or "" when the row is shorter.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// String returns the named column, or its default when the row is short or
// the field is empty.
func (r Row) String(name string) string {
	c, ok := r.schema.Column(name)
	if !ok {
		return ""
	}
	if v := r.Field(c.Index); v != "" {
		return v
	}
	return c.Default
}

// Float returns the named column as a number; unparsable values are 0.
func (r Row) Float(name string) float64 {
	f, err := strconv.ParseFloat(r.String(name), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int returns the named column as an integer; unparsable values are 0.
// Decimal text is truncated toward zero.
func (r Row) Int(name string) int {
	s := r.String(name)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// From returns the fields from index i onward.
func (r Row) From(i int) []string {
	if i >= len(r.Fields) {
		return nil
	}
	return r.Fields[i:]
}
