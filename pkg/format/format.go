// Package format serializes authored records back into game table text.
//
// The output is the exact inverse of pkg/table for the same schema: columns
// are written at the positions the schema declares, so a table written here
// parses back into equal records.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/effect"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
)

// ErrNothingToExport is returned when there are no policies to serialize.
var ErrNothingToExport = errors.New("no policies to export")

// ColEffects names the effects region in a FieldError.
const ColEffects = "effects"

// FieldError reports a value that cannot be written without corrupting the
// table.
type FieldError struct {
	Policy string
	Column string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Policy == "" {
		return fmt.Sprintf("column %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("policy %q: column %s: %s", e.Policy, e.Column, e.Reason)
}

// Policies renders the policy table for policies, in order.
// It returns ErrNothingToExport for an empty slice and a *FieldError when a
// value cannot be represented; no text is produced in either case.
func Policies(policies []core.Policy) (string, error) {
	if len(policies) == 0 {
		return "", ErrNothingToExport
	}

	schema := &table.PolicySchema
	p := newPrinter()
	p.line(schema.Header)

	for i := range policies {
		if err := CheckPolicy(&policies[i]); err != nil {
			return "", err
		}
		p.policy(schema, &policies[i])
	}

	return p.String(), nil
}

func (p *Printer) policy(schema *table.Schema, pol *core.Policy) {
	p.startRow()

	flags := string(pol.Flags)
	if flags == "" {
		flags = string(core.FlagNone)
	}

	// Columns in schema order, see table.PolicySchema.
	p.cell(table.RowMarker)
	p.cell(pol.Name)
	p.cell(pol.Slider)
	p.cell(flags)
	p.cell(table.JoinOpposites(pol.Opposites))
	p.number(pol.Introduce)
	p.number(pol.Cancel)
	p.number(pol.Raise)
	p.number(pol.Lower)
	p.cell(string(pol.Department))
	p.cell(pol.Prereqs)
	p.number(pol.MinCost)
	p.number(pol.MaxCost)
	p.cell(functionOrLinear(pol.CostFunction))
	p.cell(effect.EncodePairs(pol.CostMultipliers))
	p.integer(pol.Implementation)
	p.number(pol.MinIncome)
	p.number(pol.MaxIncome)
	p.cell(functionOrLinear(pol.IncomeFunction))
	p.cell(effect.EncodePairs(pol.IncomeMultipliers))
	p.number(pol.NationalisationGDP)

	if len(pol.Effects) > 0 {
		p.cell(schema.EffectsColumn())
		for _, f := range effect.TupleFields(pol.Effects) {
			p.cell(f)
		}
	}

	p.empty(schema.TrailingColumns)
}

func functionOrLinear(fn string) string {
	if fn == "" {
		return core.FunctionLinear
	}
	return fn
}

// CheckPolicy reports the first value of pol that cannot be written.
func CheckPolicy(pol *core.Policy) error {
	if strings.TrimSpace(pol.Name) == "" {
		return &FieldError{Column: table.ColName, Reason: "name is empty"}
	}

	for _, name := range pol.Opposites {
		if strings.Contains(name, table.OppositesSeparator) {
			return &FieldError{Policy: pol.Name, Column: table.ColOpposites, Reason: fmt.Sprintf("name %q contains %q", name, table.OppositesSeparator)}
		}
		if name == "" {
			return &FieldError{Policy: pol.Name, Column: table.ColOpposites, Reason: "empty name"}
		}
		if reason := checkValue(name); reason != "" {
			return &FieldError{Policy: pol.Name, Column: table.ColOpposites, Reason: fmt.Sprintf("name %q %s", name, reason)}
		}
	}

	for _, m := range []struct {
		column string
		list   []core.Effect
	}{
		{table.ColCostMultiplier, pol.CostMultipliers},
		{table.ColIncomeMultiplier, pol.IncomeMultipliers},
	} {
		if reason := checkPairs(m.list); reason != "" {
			return &FieldError{Policy: pol.Name, Column: m.column, Reason: reason}
		}
	}
	if reason := checkTuples(pol.Effects); reason != "" {
		return &FieldError{Policy: pol.Name, Column: ColEffects, Reason: reason}
	}

	values := []struct {
		column string
		value  string
	}{
		{table.ColName, pol.Name},
		{table.ColSlider, pol.Slider},
		{table.ColFlags, string(pol.Flags)},
		{table.ColOpposites, table.JoinOpposites(pol.Opposites)},
		{table.ColDepartment, string(pol.Department)},
		{table.ColPrereqs, pol.Prereqs},
		{table.ColCostFunction, pol.CostFunction},
		{table.ColCostMultiplier, effect.EncodePairs(pol.CostMultipliers)},
		{table.ColIncomeFunction, pol.IncomeFunction},
		{table.ColIncomeMultiplier, effect.EncodePairs(pol.IncomeMultipliers)},
	}
	for _, f := range effect.TupleFields(pol.Effects) {
		values = append(values, struct {
			column string
			value  string
		}{ColEffects, f})
	}

	for _, v := range values {
		if reason := checkValue(v.value); reason != "" {
			return &FieldError{Policy: pol.Name, Column: v.column, Reason: reason}
		}
	}
	return nil
}

func checkValue(v string) string {
	switch {
	case strings.TrimSpace(v) != v:
		return "has leading or trailing whitespace"
	case strings.ContainsRune(v, '"'):
		return "contains a double quote"
	case strings.ContainsAny(v, "\r\n"):
		return "contains a line break"
	case strings.Contains(v, table.PolicySchema.EffectsColumn()):
		return fmt.Sprintf("contains the effects marker %q", table.PolicySchema.EffectsColumn())
	}
	return ""
}

// checkPairs reports the first multiplier that would not read back as
// itself: keys cannot hold "," or ";", values and raw entries cannot hold
// ";", and every part is trimmed when read.
func checkPairs(list []core.Effect) string {
	for _, e := range list {
		switch v := e.(type) {
		case core.KeyValueEffect:
			if strings.ContainsAny(v.Key, ",;") {
				return fmt.Sprintf("multiplier key %q contains a separator", v.Key)
			}
			if strings.Contains(v.Value, ";") {
				return fmt.Sprintf("multiplier value %q contains %q", v.Value, ";")
			}
			if reason := checkPart("multiplier", v.Key, v.Value); reason != "" {
				return reason
			}
		case core.RawToken:
			if v.Text == "" || strings.ContainsAny(v.Text, ",;") {
				return fmt.Sprintf("multiplier entry %q is empty or contains a separator", v.Text)
			}
			if reason := checkPart("multiplier", v.Text); reason != "" {
				return reason
			}
		case core.GrudgeEffect:
			return "grudge effects cannot be written as multipliers"
		}
	}
	return ""
}

// checkTuples reports the first effect that would not read back as itself.
// Key, value and delay cannot hold ","; a raw token must not split into two
// or three parts, which would read back as a key/value.
func checkTuples(list []core.Effect) string {
	for _, e := range list {
		switch v := e.(type) {
		case core.KeyValueEffect:
			parts := []string{v.Key, v.Value}
			if v.HasDelay {
				parts = append(parts, v.Delay)
			}
			for _, part := range parts {
				if strings.Contains(part, ",") {
					return fmt.Sprintf("effect %s part %q contains a comma", v.Key, part)
				}
			}
			if reason := checkPart("effect", parts...); reason != "" {
				return reason
			}
		case core.RawToken:
			if v.Text == "" {
				return "empty effect"
			}
			if n := strings.Count(v.Text, ","); n == 1 || n == 2 {
				return fmt.Sprintf("raw effect %q would read back as a key/value", v.Text)
			}
			if reason := checkPart("effect", v.Text); reason != "" {
				return reason
			}
		case core.GrudgeEffect:
			return "grudge effects cannot be written as policy effects"
		}
	}
	return ""
}

func checkPart(kind string, parts ...string) string {
	for _, part := range parts {
		if strings.TrimSpace(part) != part {
			return fmt.Sprintf("%s part %q has leading or trailing whitespace", kind, part)
		}
	}
	return ""
}
