package modpack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_RoundTrip(t *testing.T) {
	files := map[string]string{
		"data/simulation/policies.csv": "header\n#,A",
		"config.txt":                   "[config]",
	}

	data, err := Archive(files)
	require.NoError(t, err)

	again, err := Archive(files)
	require.NoError(t, err)
	assert.Equal(t, data, again, "archives are deterministic")

	got, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, files, got)
}

func TestArchive_InvalidPath(t *testing.T) {
	for _, p := range []string{"../x", "/abs", "a//b", ""} {
		_, err := Archive(map[string]string{p: "x"})
		assert.Error(t, err, p)
	}
}

func TestMeta_RenderParse(t *testing.T) {
	m := Meta{Name: "Green Party", Author: "Someone", Version: "1.2"}.WithGUID()
	require.NotEmpty(t, m.GUID)

	text, err := m.Render()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "[config]"))
	assert.NotContains(t, text, "description")

	got, err := ParseMeta(text)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	assert.Equal(t, "fixed", Meta{GUID: "fixed"}.WithGUID().GUID)
}

func TestBuild(t *testing.T) {
	policies := []core.Policy{core.DefaultPolicy("Bus Lanes"), core.DefaultPolicy("Carbon Tax")}

	exp, err := Build(policies, Meta{})
	require.NoError(t, err)
	assert.Equal(t, []string{PoliciesPath}, exp.Files)
	assert.Equal(t, 2, exp.Policies)
	assert.Contains(t, exp.Summary(), "with 2 policies")

	files, err := Extract(exp.Data)
	require.NoError(t, err)
	require.Contains(t, files, PoliciesPath)
	parsed := table.ParsePolicies(files[PoliciesPath])
	require.Len(t, parsed, 2)
	assert.Equal(t, "Carbon Tax", parsed[1].Name)
}

func TestBuild_WithMeta(t *testing.T) {
	exp, err := Build([]core.Policy{core.DefaultPolicy("A")}, Meta{Name: "My Mod"})
	require.NoError(t, err)
	assert.Equal(t, []string{PoliciesPath, ConfigPath}, exp.Files)
	assert.NotEmpty(t, exp.Meta.GUID)

	files, err := Extract(exp.Data)
	require.NoError(t, err)
	meta, err := ParseMeta(files[ConfigPath])
	require.NoError(t, err)
	assert.Equal(t, "My Mod", meta.Name)
}

func TestBuild_NothingToExport(t *testing.T) {
	exp, err := Build(nil, Meta{Name: "x"})
	assert.ErrorIs(t, err, format.ErrNothingToExport)
	assert.Nil(t, exp)
}

func TestExport_WriteFile(t *testing.T) {
	exp, err := Build([]core.Policy{core.DefaultPolicy("A")}, Meta{})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", DefaultFilename)
	require.NoError(t, exp.WriteFile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, exp.Data, data)
}

func TestMeta_Map(t *testing.T) {
	m := Meta{Name: "A", Version: "1"}
	assert.Equal(t, map[string]string{"name": "A", "version": "1"}, m.Map())
	assert.Equal(t, m, MetaFromMap(m.Map()))
}

type fakeWorkspace struct {
	policies []core.Policy
	meta     map[string]string
	setErr   error
}

func (f *fakeWorkspace) Policies(context.Context) ([]core.Policy, error) { return f.policies, nil }

func (f *fakeWorkspace) Meta(context.Context) (map[string]string, error) { return f.meta, nil }

func (f *fakeWorkspace) SetMeta(_ context.Context, values map[string]string) error {
	if f.setErr != nil {
		return f.setErr
	}
	for k, v := range values {
		f.meta[k] = v
	}
	return nil
}

func TestBuildWorkspace(t *testing.T) {
	ws := &fakeWorkspace{
		policies: []core.Policy{core.DefaultPolicy("Bus Lanes")},
		meta:     map[string]string{"name": "Transit"},
	}

	exp, err := BuildWorkspace(context.Background(), ws)
	require.NoError(t, err)
	require.NotEmpty(t, ws.meta["guid"], "generated guid is stored")
	assert.Equal(t, ws.meta["guid"], exp.Meta.GUID)

	again, err := BuildWorkspace(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, exp.Meta.GUID, again.Meta.GUID, "guid is stable across exports")

	_, err = BuildWorkspace(context.Background(), &fakeWorkspace{meta: map[string]string{}})
	assert.ErrorIs(t, err, format.ErrNothingToExport)

	failing := &fakeWorkspace{policies: ws.policies, meta: map[string]string{"name": "X"}, setErr: errors.New("disk full")}
	_, err = BuildWorkspace(context.Background(), failing)
	assert.ErrorContains(t, err, "store mod guid")
}
