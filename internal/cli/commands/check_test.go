package commands

import (
	"encoding/json"
	"testing"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/internal/cli/testutil"
	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand(t *testing.T) {
	dataDir := testutil.SetupTestCorpus(t)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := testutil.Run(t, NewCheckCommand(), testutil.TestConfig(t, dataDir, output.ModeJSON))
		require.NoError(t, err)

		var report loader.Report
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, 2, report.Policies)
		assert.Equal(t, 2, report.Sliders)
		assert.Equal(t, 2, report.Simulation)
		assert.Equal(t, 2, report.Dilemmas)
		assert.False(t, report.Fallback)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0].Path, "Broken.txt")
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := testutil.Run(t, NewCheckCommand(), testutil.TestConfig(t, dataDir, output.ModeMarkdown))
		require.NoError(t, err)

		testutil.AssertNoANSI(t, stdout)
		assert.Contains(t, stdout, "# Game Data Check")
		assert.Contains(t, stdout, "- **Policies**: 2")
		assert.Contains(t, stdout, "## Warnings (1)")
		assert.Contains(t, stdout, "Broken.txt")
	})

	t.Run("text", func(t *testing.T) {
		stdout, _, err := testutil.Run(t, NewCheckCommand(), testutil.TestConfig(t, dataDir, output.ModeText))
		require.NoError(t, err)

		assert.Contains(t, stdout, "Game Data Check")
		assert.Contains(t, stdout, "Dilemmas:")
		assert.Contains(t, stdout, "Warnings (1)")
		assert.Contains(t, stdout, "Loaded in")
	})
}

func TestCheckCommand_MissingDataDir(t *testing.T) {
	cfg := testutil.TestConfig(t, t.TempDir(), output.ModeJSON)

	_, _, err := testutil.Run(t, NewCheckCommand(), cfg)
	require.Error(t, err, "an unlistable dilemma directory fails the load")
}
