// Package dilemma parses the section/key=value dilemma files.
//
// Parsing never fails. Unknown sections and keys are ignored, lines that are
// neither a section header nor a key=value pair are skipped, and a missing
// [dilemma] name leaves the name empty.
package dilemma

import (
	"regexp"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/effect"
)

// Section names and keys understood by the parser.
const (
	SectionDilemma    = "dilemma"
	SectionInfluences = "influences"
	OptionPrefix      = "option"

	KeyName        = "name"
	KeyOnImplement = "OnImplement"

	// FileExt is the extension of dilemma files in the data directory.
	FileExt = ".txt"
)

var influenceKey = regexp.MustCompile(`^\d+$`)

// IDFromFilename returns the dilemma id for a file name, which is the base
// name without its .txt extension.
func IDFromFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, FileExt)
}

// Parse builds a Dilemma from the text of one dilemma file.
//
// Options are appended in the order their sections appear; the number in an
// [optionN] header is not interpreted, so [option1] followed by [option5]
// yields two options. Influences are collected in encounter order.
func Parse(text, id string) core.Dilemma {
	d := core.Dilemma{ID: id}

	var (
		section string
		current = -1
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := sectionHeader(line); ok {
			section = name
			if strings.HasPrefix(name, OptionPrefix) {
				d.Options = append(d.Options, core.Option{ID: name})
				current = len(d.Options) - 1
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case section == SectionDilemma:
			if key == KeyName {
				d.Name = value
			}
		case section == SectionInfluences:
			if influenceKey.MatchString(key) {
				d.Influences = append(d.Influences, ParseInfluence(value))
			}
		case strings.HasPrefix(section, OptionPrefix) && current >= 0:
			if key == KeyOnImplement {
				d.Options[current].RawEffects = value
				d.Options[current].Effects = effect.DecodeGrudges(value)
			}
		}
	}

	return d
}

// ParseInfluence keeps the raw value and, when it has at least three
// comma-separated parts, the positional name and values.
func ParseInfluence(raw string) core.Influence {
	inf := core.Influence{Raw: raw}
	parts := strings.Split(raw, ",")
	if len(parts) >= 3 {
		inf.Name = strings.TrimSpace(parts[0])
		inf.Value1 = strings.TrimSpace(parts[1])
		inf.Value2 = strings.TrimSpace(parts[2])
	}
	return inf
}

func sectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}
