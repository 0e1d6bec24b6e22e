package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mistaa/flowstudio/internal/server"
)

// serveCommand creates the serve command for running the persistence API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the graph persistence API",
		Long: `Start the graph persistence API.

The server exposes graph load, save, delete, list, and export endpoints
under /api/v1/operators/{operatorID}/graphs. Storage and cache backends
come from the config file; the --addr flag overrides the listen address.

The editor and the other commands can target a running server by setting
the storage backend to "http" with its base URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8085)")

	return cmd
}

// runServe wires the configured backends into the HTTP server and blocks
// until the context is cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	ch := c.newCache(ctx, cfg)
	defer ch.Close()

	srv := server.New(st,
		server.WithCache(ch, cfg.CacheTTL()),
		server.WithLogger(c.Logger),
	)

	c.Logger.Info("starting server", "addr", addr, "storage", cfg.Storage.Backend, "cache", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
