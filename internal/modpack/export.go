package modpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
	"github.com/dustin/go-humanize"
)

// Paths inside a mod archive.
const (
	PoliciesPath = "data/simulation/policies.csv"
	ConfigPath   = "config.txt"
)

// DefaultFilename is the name of an exported archive.
const DefaultFilename = "democracy_mod_export.zip"

// Export is a built mod archive.
type Export struct {
	Data     []byte
	Files    []string
	Policies int
	Meta     Meta
}

// Size returns the archive size in human units.
func (e *Export) Size() string {
	return humanize.Bytes(uint64(len(e.Data)))
}

// Summary is the one-line success message for an export.
func (e *Export) Summary() string {
	return fmt.Sprintf("Successfully exported mod with %d policies (%s)", e.Policies, e.Size())
}

// Build serializes policies and packs them with the optional settings. It
// returns format.ErrNothingToExport when policies is empty.
func Build(policies []core.Policy, meta Meta) (*Export, error) {
	text, err := format.Policies(policies)
	if err != nil {
		return nil, err
	}

	files := map[string]string{PoliciesPath: text}
	out := []string{PoliciesPath}
	if !meta.IsZero() {
		meta = meta.WithGUID()
		cfg, err := meta.Render()
		if err != nil {
			return nil, err
		}
		files[ConfigPath] = cfg
		out = append(out, ConfigPath)
	}

	data, err := Archive(files)
	if err != nil {
		return nil, err
	}
	return &Export{Data: data, Files: out, Policies: len(policies), Meta: meta}, nil
}

// Workspace is the authored mod state an export is built from.
type Workspace interface {
	Policies(ctx context.Context) ([]core.Policy, error)
	Meta(ctx context.Context) (map[string]string, error)
	SetMeta(ctx context.Context, values map[string]string) error
}

// BuildWorkspace builds an export from ws. A GUID generated for the mod is
// stored back so later exports reuse it.
func BuildWorkspace(ctx context.Context, ws Workspace) (*Export, error) {
	policies, err := ws.Policies(ctx)
	if err != nil {
		return nil, err
	}
	values, err := ws.Meta(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := Build(policies, MetaFromMap(values))
	if err != nil {
		return nil, err
	}
	if exp.Meta.GUID != values["guid"] {
		if err := ws.SetMeta(ctx, map[string]string{"guid": exp.Meta.GUID}); err != nil {
			return nil, fmt.Errorf("store mod guid: %w", err)
		}
	}
	return exp, nil
}

// WriteFile writes the archive to path, creating parent directories.
func (e *Export) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, e.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
