// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/config"
	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
	"github.com/spf13/cobra"
)

// CorpusPolicies are the policies written by SetupTestCorpus.
var CorpusPolicies = []core.Policy{
	{
		Name:           "Bus Lanes",
		Slider:         "BusLanesSlider",
		Flags:          core.FlagNone,
		Opposites:      []string{"Car Tax"},
		Department:     core.DepartmentTransport,
		MinCost:        10,
		MaxCost:        40,
		CostFunction:   core.FunctionLinear,
		IncomeFunction: core.FunctionLinear,
		Introduce:      30,
		Implementation: 4,
		Effects: core.EffectList{
			core.KeyValueEffect{Key: "Commuters", Value: "0.1+(0.2*x)"},
			core.KeyValueEffect{Key: "Congestion", Value: "-0.3*x", Delay: "4", HasDelay: true},
		},
	},
	{
		Name:           "Carbon Tax",
		Flags:          core.FlagMultiplyIncome,
		Department:     core.DepartmentTax,
		MaxIncome:      25.5,
		CostFunction:   core.FunctionLinear,
		IncomeFunction: core.FunctionQuartic,
	},
}

// SetupTestCorpus creates a temporary game data directory holding the
// three tables and two dilemmas. One extra dilemma file is unreadable so
// loads report a warning.
func SetupTestCorpus(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	policies, err := format.Policies(CorpusPolicies)
	if err != nil {
		t.Fatalf("failed to format policies: %v", err)
	}

	files := map[string]string{
		"data/simulation/policies.csv":   policies,
		"data/simulation/sliders.csv":    "Name,Type,Value1,Value2\n#,BusLanesSlider,DISCRETE,0\n#,TaxRate,PERCENTAGE,5,60\n",
		"data/simulation/simulation.csv": "#,GDP,ECONOMY,0.5,0,1,HIGHGOOD,gdp,Jobs\n#,Crime,LAWANDORDER,0.3,0,1,LOWGOOD,crime\n",
		"data/simulation/dilemmas/Airport.txt": `[dilemma]
name=Airport Expansion
[influences]
0=Commuters,0.1,0.2
1=GDP
[option1]
OnImplement=CreateGrudge(Environmentalists,10,-5);
[option2]
OnImplement=
`,
		"data/simulation/dilemmas/Adoption.txt": "[dilemma]\nname=Adoption Rights\n[option1]\nOnImplement=CreateGrudge(Religious,5,2)\n",
	}

	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", rel, err)
		}
	}

	// A dangling link is listed but cannot be read.
	broken := filepath.Join(root, "data", "simulation", "dilemmas", "Broken.txt")
	if err := os.Symlink(filepath.Join(root, "missing.txt"), broken); err != nil {
		t.Fatalf("failed to create Broken.txt: %v", err)
	}
	return root
}

// TestConfig returns a configuration reading the corpus at dataDir, with a
// workspace in a fresh temporary directory.
func TestConfig(t *testing.T, dataDir string, mode output.OutputMode) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		t.Fatalf("failed to load default config: %v", err)
	}
	cfg.DataDir = dataDir
	cfg.Workspace = filepath.Join(t.TempDir(), "workspace.db")
	cfg.Export.Path = filepath.Join(t.TempDir(), "mod.zip")
	cfg.OutputFormat = string(mode)
	return cfg
}

// Run executes cmd with args and cfg in its context, returning what it
// wrote to stdout and stderr.
func Run(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(config.WithConfig(context.Background(), cfg))
	return out.String(), errOut.String(), err
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}
