package modpack

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

// ConfigSection is the section of config.txt holding the mod settings.
const ConfigSection = "config"

// Meta is the optional description of a mod.
type Meta struct {
	Name        string `json:"name" yaml:"name"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	GUID        string `json:"guid,omitempty" yaml:"guid,omitempty"`
}

// IsZero reports whether no mod name is set; unnamed mods get no config.txt.
func (m Meta) IsZero() bool {
	return m.Name == ""
}

// WithGUID returns m with a fresh GUID when it has none.
func (m Meta) WithGUID() Meta {
	if m.GUID == "" {
		m.GUID = uuid.NewString()
	}
	return m
}

// Render writes m as an ini document.
func (m Meta) Render() (string, error) {
	f := ini.Empty()
	sec, err := f.NewSection(ConfigSection)
	if err != nil {
		return "", err
	}

	for _, kv := range []struct{ key, value string }{
		{"name", m.Name},
		{"author", m.Author},
		{"description", m.Description},
		{"version", m.Version},
		{"guid", m.GUID},
	} {
		if kv.value == "" {
			continue
		}
		if _, err := sec.NewKey(kv.key, kv.value); err != nil {
			return "", fmt.Errorf("set %s: %w", kv.key, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return buf.String(), nil
}

// ParseMeta reads the settings written by Render.
func ParseMeta(text string) (Meta, error) {
	f, err := ini.Load([]byte(text))
	if err != nil {
		return Meta{}, fmt.Errorf("parse config: %w", err)
	}
	sec := f.Section(ConfigSection)
	return Meta{
		Name:        sec.Key("name").String(),
		Author:      sec.Key("author").String(),
		Description: sec.Key("description").String(),
		Version:     sec.Key("version").String(),
		GUID:        sec.Key("guid").String(),
	}, nil
}

// Map returns the non-empty settings keyed by their config.txt names.
func (m Meta) Map() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		"name":        m.Name,
		"author":      m.Author,
		"description": m.Description,
		"version":     m.Version,
		"guid":        m.GUID,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// MetaFromMap is the inverse of Map.
func MetaFromMap(values map[string]string) Meta {
	return Meta{
		Name:        values["name"],
		Author:      values["author"],
		Description: values["description"],
		Version:     values["version"],
		GUID:        values["guid"],
	}
}
