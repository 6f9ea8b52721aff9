package commands

import (
	"fmt"

	"github.com/Jocowski/democracy-mod-maker/internal/cli/config"
	"github.com/Jocowski/democracy-mod-maker/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game data and the mod workspace over HTTP",
		Long: `Start a local JSON API over the game data catalog and the mod workspace.

The API provides:
- Paged, searchable policies, sliders, simulation variables and dilemmas
- Authored policy create, edit and delete
- Mod settings and zip export
- A reload event stream when watched data files change`,
		Example: `  # Serve on the default port
  modmaker serve

  # Serve on a custom port without watching files
  modmaker serve --port 3000 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", config.DefaultPort, "Port to serve on")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the catalog when data files change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	// CLI flags override config file
	port := cfg.Serve.Port
	if cmd.Flags().Changed("port") {
		port = opts.Port
	}
	watch := cfg.Serve.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	if cfg.Source != config.SourceDir {
		watch = false
	}

	l, err := cmdCtx.Loader()
	if err != nil {
		return err
	}
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(server.Config{
		Loader:   l,
		Store:    store,
		Port:     port,
		Watch:    watch,
		WatchDir: cfg.DataDir,
		Logger:   cmdCtx.Logger,
	})
	if err := srv.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	r := cmdCtx.Renderer
	r.Printf("Serving on http://localhost:%d\n", port)
	r.Println("Press Ctrl+C to stop")

	return srv.Serve(cmd.Context())
}
