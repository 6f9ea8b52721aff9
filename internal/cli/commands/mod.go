package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/internal/modpack"
	"github.com/Jocowski/democracy-mod-maker/internal/state"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
	"github.com/Jocowski/democracy-mod-maker/pkg/table"
	"github.com/spf13/cobra"
)

// NewModCommand creates the mod command and its subcommands.
func NewModCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mod",
		Short: "Author a mod in the local workspace and export it",
		Long: `Build a mod from authored policies kept in the workspace database.

Policies are added and edited with field flags, or imported from an existing
policy table. The export writes data/simulation/policies.csv, plus config.txt
when a mod name is set, into a zip archive.`,
	}

	cmd.AddCommand(newModPolicyCommand())
	cmd.AddCommand(newModImportCommand())
	cmd.AddCommand(newModMetaCommand())
	cmd.AddCommand(newModExportCommand())
	return cmd
}

func newModPolicyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage authored policies",
	}
	cmd.AddCommand(newPolicyAddCommand())
	cmd.AddCommand(newPolicySetCommand())
	cmd.AddCommand(newPolicyRmCommand())
	cmd.AddCommand(newPolicyLsCommand())
	return cmd
}

func newPolicyAddCommand() *cobra.Command {
	f := &PolicyFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a policy to the workspace",
		Long: `Add a policy. Unset fields take the editor defaults: flags none, linear
cost and income functions, zero for every number.`,
		Example: `  modmaker mod policy add --name "Bus Lanes" --department TRANSPORT \
    --min-cost 10 --max-cost 40 --cost-function quartic \
    --opposites "Car Tax" --opposites "Tax,Credits" \
    --effect "Commuters,0.1+(0.2*x)" --effect "Congestion,-0.3*x,4"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("name") || strings.TrimSpace(f.Name) == "" {
				return errors.New("--name is required")
			}
			p := core.DefaultPolicy("")
			if err := f.apply(cmd, &p); err != nil {
				return err
			}
			return addPolicy(cmd, p)
		},
	}
	f.addFlags(cmd)
	return cmd
}

func newPolicySetCommand() *cobra.Command {
	f := &PolicyFlags{}
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Edit a policy in the workspace",
		Long:  `Change the given fields of an authored policy. --name renames it.`,
		Example: `  modmaker mod policy set "Bus Lanes" --max-cost 55
  modmaker mod policy set "Bus Lanes" --name "Bus Priority Lanes"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			current, err := store.GetPolicy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := current.Policy.Clone()
			if err := f.apply(cmd, &p); err != nil {
				return err
			}
			if err := format.CheckPolicy(&p); err != nil {
				return err
			}
			if _, err := store.UpdatePolicy(cmd.Context(), args[0], p); err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Updated policy %q", p.Name))
			return nil
		},
	}
	f.addFlags(cmd)
	return cmd
}

func addPolicy(cmd *cobra.Command, p core.Policy) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if err := format.CheckPolicy(&p); err != nil {
		return err
	}
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := store.AddPolicy(cmd.Context(), p); err != nil {
		return err
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("Added policy %q", p.Name))
	return nil
}

func newPolicyRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a policy from the workspace",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.DeletePolicy(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Removed policy %q", args[0]))
			return nil
		},
	}
}

func newPolicyLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the authored policies in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			policies, err := store.ListPolicies(cmd.Context())
			if err != nil {
				return err
			}
			return renderAuthored(cmdCtx.Renderer, policies)
		},
	}
}

func renderAuthored(r *output.Renderer, policies []state.AuthoredPolicy) error {
	if ok, err := r.Encode(policies); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Workspace Policies (%d)", len(policies)))
	if len(policies) == 0 {
		r.Muted("No policies yet. Add one with 'modmaker mod policy add --name NAME'")
		return nil
	}
	rows := make([][]string, 0, len(policies))
	for _, ap := range policies {
		p := ap.Policy
		rows = append(rows, []string{
			p.Name,
			string(p.Department),
			string(p.Flags),
			output.Number(p.MinCost) + " - " + output.Number(p.MaxCost),
			p.CostFunction,
			output.Number(p.MinIncome) + " - " + output.Number(p.MaxIncome),
			r.Lines(output.EffectLines(p.Effects)),
		})
	}
	r.Table([]string{"Name", "Department", "Flags", "Cost", "Cost Function", "Income", "Effects"}, rows)
	return nil
}

// ImportOptions holds options for the mod import command.
type ImportOptions struct {
	Replace bool
}

func newModImportCommand() *cobra.Command {
	opts := &ImportOptions{}
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a policy table or mod archive into the workspace",
		Long: `Import policies from a policies.csv file, or from a mod archive exported
earlier. Importing an archive also restores its config.txt settings.`,
		Example: `  modmaker mod import game/data/simulation/policies.csv
  modmaker mod import democracy_mod_export.zip --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModImport(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Remove existing workspace policies first")
	return cmd
}

func runModImport(cmd *cobra.Command, path string, opts *ImportOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text := string(data)
	var meta *modpack.Meta
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		files, err := modpack.Extract(data)
		if err != nil {
			return err
		}
		var ok bool
		if text, ok = files[modpack.PoliciesPath]; !ok {
			return fmt.Errorf("%s: archive has no %s", path, modpack.PoliciesPath)
		}
		if cfgText, ok := files[modpack.ConfigPath]; ok {
			m, err := modpack.ParseMeta(cfgText)
			if err != nil {
				return err
			}
			meta = &m
		}
	}

	policies := table.ParsePolicies(text)
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := store.ImportPolicies(cmd.Context(), policies, opts.Replace)
	if err != nil {
		return err
	}
	if meta != nil {
		if err := store.SetMeta(cmd.Context(), meta.Map()); err != nil {
			return err
		}
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("Imported %d policies from %s", n, path))
	return nil
}

// MetaOptions holds options for the mod meta command.
type MetaOptions struct {
	Name        string
	Author      string
	Description string
	Version     string
}

func newModMetaCommand() *cobra.Command {
	opts := &MetaOptions{}
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show or set the mod settings written to config.txt",
		Long: `Show the mod settings, or change the ones given as flags. An empty value
clears a setting. config.txt is only exported when a mod name is set.`,
		Example: `  modmaker mod meta --name "Transit Reform" --author me --version 1.0
  modmaker mod meta --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModMeta(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "Mod name")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Mod author")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Mod description")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Mod version")
	return cmd
}

func runModMeta(cmd *cobra.Command, opts *MetaOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	updates := map[string]string{}
	for flag, value := range map[string]string{
		"name":        opts.Name,
		"author":      opts.Author,
		"description": opts.Description,
		"version":     opts.Version,
	} {
		if cmd.Flags().Changed(flag) {
			updates[flag] = strings.TrimSpace(value)
		}
	}
	if len(updates) > 0 {
		if err := store.SetMeta(cmd.Context(), updates); err != nil {
			return err
		}
	}

	values, err := store.Meta(cmd.Context())
	if err != nil {
		return err
	}
	meta := modpack.MetaFromMap(values)

	r := cmdCtx.Renderer
	if ok, err := r.Encode(meta); ok {
		return err
	}
	r.Header(1, "Mod Settings")
	for _, kv := range [][2]string{
		{"Name", meta.Name},
		{"Author", meta.Author},
		{"Description", meta.Description},
		{"Version", meta.Version},
		{"GUID", meta.GUID},
	} {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
			continue
		}
		r.Printf("   %-12s %s\n", kv[0]+":", kv[1])
	}
	return nil
}

// ExportOptions holds options for the mod export command.
type ExportOptions struct {
	Out string
}

func newModExportCommand() *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the workspace as a mod archive",
		Example: `  modmaker mod export
  modmaker mod export --out dist/transit.zip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModExport(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Out, "out", "", "Archive path (default: export.path)")
	return cmd
}

func runModExport(cmd *cobra.Command, opts *ExportOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmdCtx.Cfg.Export.Path
	if cmd.Flags().Changed("out") {
		out = opts.Out
	}
	if out == "" {
		out = modpack.DefaultFilename
	}

	exp, err := modpack.BuildWorkspace(cmd.Context(), store)
	if errors.Is(err, format.ErrNothingToExport) {
		return fmt.Errorf("%w: add a policy with 'modmaker mod policy add' first", err)
	}
	if err != nil {
		return err
	}
	if err := exp.WriteFile(out); err != nil {
		return err
	}

	cmdCtx.Logger.Info("mod exported", "path", out, "policies", exp.Policies, "size", exp.Size())
	r := cmdCtx.Renderer
	if ok, err := r.Encode(map[string]any{
		"path":     out,
		"policies": exp.Policies,
		"files":    exp.Files,
		"bytes":    len(exp.Data),
	}); ok {
		return err
	}
	r.Success(exp.Summary())
	r.Muted(out)
	return nil
}
