package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/config"
	"github.com/Jocowski/democracy-mod-maker/internal/cli/output"
	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/Jocowski/democracy-mod-maker/internal/source"
	"github.com/Jocowski/democracy-mod-maker/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger the
// root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the loaded configuration, falling back to defaults
// and environment when the command runs without the root command.
func getConfig(ctx context.Context) (*config.Config, error) {
	if ctx != nil {
		if cfg := config.GetConfig(ctx); cfg != nil {
			return cfg, nil
		}
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Source builds the configured game data source.
func (c *CommandContext) Source() (source.Source, error) {
	switch c.Cfg.Source {
	case config.SourceHTTP:
		return source.NewHTTP(c.Cfg.BaseURL, c.Cfg.HTTPTimeout)
	default:
		return source.NewDir(c.Cfg.DataDir), nil
	}
}

// Loader builds a loader over the configured source.
func (c *CommandContext) Loader() (*loader.Loader, error) {
	src, err := c.Source()
	if err != nil {
		return nil, err
	}
	return loader.New(loader.Config{
		Source:         src,
		DilemmasDir:    c.Cfg.DilemmasDir,
		PoliciesPath:   c.Cfg.PoliciesPath,
		SlidersPath:    c.Cfg.SlidersPath,
		SimulationPath: c.Cfg.SimulationPath,
		Fallback:       c.Cfg.FallbackDilemmas,
		Workers:        c.Cfg.Workers,
		Logger:         c.Logger,
	}), nil
}

// OpenStore opens the workspace database.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore(ctx context.Context) (*state.Store, func(), error) {
	store, err := state.Open(ctx, c.Cfg.Workspace, c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workspace %s: %w", c.Cfg.Workspace, err)
	}
	cleanup := func() {
		_ = store.Close()
	}
	return store, cleanup, nil
}
