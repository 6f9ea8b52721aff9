package format

import (
	"bytes"
	"strconv"

	"github.com/Jocowski/democracy-mod-maker/pkg/fields"
)

// Printer writes table text one row at a time. Rows are separated by a
// single newline and the output has no trailing newline.
type Printer struct {
	output      *bytes.Buffer
	rows        int
	atLineStart bool
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the printed table.
func (p *Printer) String() string {
	return p.output.String()
}

// line writes s verbatim as a complete row.
func (p *Printer) line(s string) {
	p.startRow()
	p.output.WriteString(s)
}

func (p *Printer) startRow() {
	if p.rows > 0 {
		p.output.WriteByte('\n')
	}
	p.rows++
	p.atLineStart = true
}

// cell writes one column, quoting it when needed.
func (p *Printer) cell(s string) {
	if !p.atLineStart {
		p.output.WriteRune(fields.Separator)
	}
	p.output.WriteString(fields.Quote(s))
	p.atLineStart = false
}

func (p *Printer) number(v float64) {
	p.cell(FormatNumber(v))
}

func (p *Printer) integer(v int) {
	p.cell(strconv.Itoa(v))
}

func (p *Printer) empty(n int) {
	for range n {
		p.cell("")
	}
}

// FormatNumber renders v with the fewest digits that parse back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
