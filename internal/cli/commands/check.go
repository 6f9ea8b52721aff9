package commands

import (
	"fmt"
	"time"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the whole game data corpus and report what was found",
		Long: `Load every table and dilemma from the configured source and report the
record counts and any unit that could not be loaded.

Unreadable files are warnings; the command fails only when the dilemma
directory itself cannot be listed.`,
		Example: `  # Check a local game data directory
  modmaker check --data-dir ./game

  # Check a served copy
  modmaker check --source http --base-url http://localhost:8000/`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}

	_, report, err := l.Load(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if ok, err := r.Encode(report); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		renderCheckMarkdown(r, report)
		return nil
	}
	renderCheckText(r, report)
	return nil
}

func checkCounts(report *loader.Report) [][2]string {
	return [][2]string{
		{"Policies", humanize.Comma(int64(report.Policies))},
		{"Sliders", humanize.Comma(int64(report.Sliders))},
		{"Simulation", humanize.Comma(int64(report.Simulation))},
		{"Dilemmas", humanize.Comma(int64(report.Dilemmas))},
	}
}

func renderCheckText(r *output.Renderer, report *loader.Report) {
	styles := r.Styles()

	r.Println(styles.Header1.Render("Game Data Check"))
	r.Println(styles.Muted.Render(report.Source))
	r.Println("")
	for _, kv := range checkCounts(report) {
		r.Printf("   %-12s %s\n", kv[0]+":", kv[1])
	}
	if report.Fallback {
		r.Println(styles.Warning.Render("   Dilemma listing was empty; loaded the fallback list"))
	}
	r.Println("")

	if len(report.Warnings) == 0 {
		r.Println(styles.StatusSuccess.String() + " All files loaded")
	} else {
		r.Println(styles.Header2.Render(fmt.Sprintf("Warnings (%d)", len(report.Warnings))))
		for _, w := range report.Warnings {
			r.Printf("   %s %s: %s\n", styles.Warning.Render("!"), w.Path, styles.Muted.Render(w.Error))
		}
	}
	r.Println(styles.Muted.Render("Loaded in " + report.Duration.Round(time.Millisecond).String()))
}

func renderCheckMarkdown(r *output.Renderer, report *loader.Report) {
	r.Println(output.FormatHeader(1, "Game Data Check"))
	r.Println("")
	r.Println(output.FormatKeyValue("Source", report.Source))
	for _, kv := range checkCounts(report) {
		r.Println(output.FormatKeyValue(kv[0], kv[1]))
	}
	r.Println(output.FormatKeyValue("Fallback", report.Fallback))
	r.Println("")

	r.Println(output.FormatHeader(2, fmt.Sprintf("Warnings (%d)", len(report.Warnings))))
	r.Println("")
	for _, w := range report.Warnings {
		r.Printf("- `%s`: %s\n", w.Path, w.Error)
	}
}
