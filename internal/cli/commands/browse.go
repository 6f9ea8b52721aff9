package commands

import (
	"fmt"
	"strings"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/spf13/cobra"
)

// QueryOptions holds the search and paging flags shared by the browse commands.
type QueryOptions struct {
	Search   string
	Page     int
	PageSize int
	Sort     string
}

func (o *QueryOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Search, "search", "s", "", "Case-insensitive substring filter")
	cmd.Flags().IntVar(&o.Page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&o.PageSize, "page-size", loader.DefaultPageSize, "Records per page")
	cmd.Flags().StringVar(&o.Sort, "sort", loader.SortNone, "Sort order: name (default: file order)")
}

func (o *QueryOptions) query() (loader.Query, error) {
	if o.Sort != loader.SortNone && o.Sort != loader.SortName {
		return loader.Query{}, fmt.Errorf("unknown sort %q (available: %s)", o.Sort, loader.SortName)
	}
	return loader.Query{Search: o.Search, Page: o.Page, PageSize: o.PageSize, Sort: o.Sort}, nil
}

const browseLong = `
Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown tables (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`

// NewPoliciesCommand creates the policies command.
func NewPoliciesCommand() *cobra.Command {
	opts := &QueryOptions{}
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List the policies of the game data",
		Long: `List every row of the policy table with its costs, multipliers and effects.
Search matches the policy name and department.
` + browseLong,
		Example: `  # First page of policies
  modmaker policies

  # Tax policies sorted by name, as JSON
  modmaker policies --search tax --sort name --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPolicies(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runPolicies(cmd *cobra.Command, opts *QueryOptions) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}
	policies, err := l.LoadPolicies(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}

	r := cmdCtx.Renderer
	page := (&loader.Catalog{Policies: policies}).QueryPolicies(q)
	if ok, err := r.Encode(page); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Policies (%d total)", page.Total))
	rows := make([][]string, 0, len(page.Items))
	for _, p := range page.Items {
		rows = append(rows, []string{
			p.Name,
			p.Slider,
			string(p.Flags),
			r.Lines(p.Opposites),
			string(p.Department),
			p.Prereqs,
			output.Number(p.MinCost) + " - " + output.Number(p.MaxCost),
			p.CostFunction,
			r.Lines(output.EffectLines(p.CostMultipliers)),
			output.Number(p.MinIncome) + " - " + output.Number(p.MaxIncome),
			p.IncomeFunction,
			r.Lines(output.EffectLines(p.IncomeMultipliers)),
			fmt.Sprintf("%s/%s/%s/%s", output.Number(p.Introduce), output.Number(p.Cancel), output.Number(p.Raise), output.Number(p.Lower)),
			fmt.Sprint(p.Implementation),
			output.Number(p.NationalisationGDP),
			r.Lines(output.EffectLines(p.Effects)),
		})
	}
	r.Table([]string{
		"Name", "Slider", "Flags", "Opposites", "Department", "Prereqs",
		"Cost", "Cost Function", "Cost Multipliers",
		"Income", "Income Function", "Income Multipliers",
		"Introduce/Cancel/Raise/Lower", "Implementation", "Nationalisation GDP %", "Effects",
	}, rows)
	pageFooter(r, page.Page, page.Pages(), page.Total)
	return nil
}

// NewSlidersCommand creates the sliders command.
func NewSlidersCommand() *cobra.Command {
	opts := &QueryOptions{}
	cmd := &cobra.Command{
		Use:   "sliders",
		Short: "List the policy sliders of the game data",
		Long: `List every row of the slider table. Discrete sliders without steps are
shown as FREE SLIDER. Search matches the slider name and type.
` + browseLong,
		Example: `  modmaker sliders --search percentage`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSliders(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runSliders(cmd *cobra.Command, opts *QueryOptions) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}
	sliders, err := l.LoadSliders(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load sliders: %w", err)
	}

	r := cmdCtx.Renderer
	page := (&loader.Catalog{Sliders: sliders}).QuerySliders(q)
	if ok, err := r.Encode(page); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Sliders (%d total)", page.Total))
	rows := make([][]string, 0, len(page.Items))
	for _, s := range page.Items {
		rows = append(rows, []string{s.Name, string(s.Type), output.SliderSteps(s), output.SliderRange(s)})
	}
	r.Table([]string{"Name", "Type", "Steps", "Min - Max %"}, rows)
	pageFooter(r, page.Page, page.Pages(), page.Total)
	return nil
}

// NewSimulationCommand creates the simulation command.
func NewSimulationCommand() *cobra.Command {
	opts := &QueryOptions{}
	cmd := &cobra.Command{
		Use:   "simulation",
		Short: "List the simulation variables of the game data",
		Long: `List every row of the simulation table. Search matches the variable name,
zone and emotion.
` + browseLong,
		Example: `  modmaker simulation --search economy --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runSimulation(cmd *cobra.Command, opts *QueryOptions) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}
	vars, err := l.LoadSimulation(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load simulation: %w", err)
	}

	r := cmdCtx.Renderer
	page := (&loader.Catalog{Simulation: vars}).QuerySimulation(q)
	if ok, err := r.Encode(page); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Simulation (%d total)", page.Total))
	rows := make([][]string, 0, len(page.Items))
	for _, v := range page.Items {
		rows = append(rows, []string{
			v.Name,
			string(v.Zone),
			output.Number(v.Default),
			output.Number(v.Min),
			output.Number(v.Max),
			string(v.Emotion),
			v.Icon,
			r.Lines(v.Effects),
		})
	}
	r.Table([]string{"Name", "Zone", "Default", "Min", "Max", "Emotion", "Icon", "Effects"}, rows)
	pageFooter(r, page.Page, page.Pages(), page.Total)
	return nil
}

// DilemmasOptions holds options for the dilemmas command.
type DilemmasOptions struct {
	QueryOptions
	Show string
}

// NewDilemmasCommand creates the dilemmas command.
func NewDilemmasCommand() *cobra.Command {
	opts := &DilemmasOptions{}
	cmd := &cobra.Command{
		Use:   "dilemmas",
		Short: "List the dilemmas of the game data",
		Long: `List the dilemma files with their influences and options. Files that cannot
be read are reported as warnings and left out. Search matches the dilemma name.
` + browseLong,
		Example: `  # List dilemmas
  modmaker dilemmas

  # Show one dilemma in full
  modmaker dilemmas --show Airport`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDilemmas(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Show, "show", "", "Show the dilemma with this id")
	return cmd
}

func runDilemmas(cmd *cobra.Command, opts *DilemmasOptions) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}
	dilemmas, report, err := l.LoadDilemmas(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if !r.EffectiveMode().IsStructured() {
		for _, w := range report.Warnings {
			r.Warning(fmt.Sprintf("%s: %s", w.Path, w.Error))
		}
	}

	cat := &loader.Catalog{Dilemmas: dilemmas}
	if opts.Show != "" {
		d, ok := cat.Dilemma(opts.Show)
		if !ok {
			return fmt.Errorf("dilemma %q not found", opts.Show)
		}
		return showDilemma(r, d)
	}

	page := cat.QueryDilemmas(q)
	if ok, err := r.Encode(page); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Dilemmas (%d total)", page.Total))
	rows := make([][]string, 0, len(page.Items))
	for _, d := range page.Items {
		rows = append(rows, []string{d.ID, d.Name, r.Lines(output.InfluenceLines(d.Influences)), r.Lines(optionLines(d))})
	}
	r.Table([]string{"ID", "Name", "Influences", "Options"}, rows)
	pageFooter(r, page.Page, page.Pages(), page.Total)
	return nil
}

func optionLines(d core.Dilemma) []string {
	var lines []string
	for _, o := range d.Options {
		effects := output.EffectLines(o.Effects)
		if len(effects) == 0 {
			lines = append(lines, o.ID)
			continue
		}
		lines = append(lines, o.ID+": "+strings.Join(effects, "; "))
	}
	return lines
}

func showDilemma(r *output.Renderer, d core.Dilemma) error {
	if ok, err := r.Encode(d); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	r.Header(1, d.Name)
	if markdown {
		r.Println(output.FormatKeyValue("ID", d.ID))
		r.Println("")
	} else {
		r.Muted(d.ID)
		r.Println("")
	}

	r.Header(2, "Influences")
	for _, line := range output.InfluenceLines(d.Influences) {
		r.Println(bullet(markdown, line))
	}
	r.Println("")

	for _, o := range d.Options {
		r.Header(2, o.ID)
		for _, line := range output.EffectLines(o.Effects) {
			r.Println(bullet(markdown, line))
		}
		r.Println("")
	}
	return nil
}

func bullet(markdown bool, line string) string {
	if markdown {
		return "- " + line
	}
	return "  " + line
}

func pageFooter(r *output.Renderer, page, pages, total int) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("")
		r.Printf("_Page %d of %d (%d records)_\n", page, pages, total)
		return
	}
	r.Muted(fmt.Sprintf("Page %d of %d (%d records)", page, pages, total))
}
