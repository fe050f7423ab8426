package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Start the HTTP API. Analysis results are cached like the CLI's (Redis when
configured), archived trees go to the configured store, and Prometheus
metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.WithoutCancel(ctx))

			api.RegisterMetrics()
			return api.New(runner, store, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}
