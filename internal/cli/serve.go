package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotflow/internal/server"
	"github.com/matzehuels/dotflow/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve exposes POST /v1/render, GET /v1/themes and GET /healthz.

Set --redis-url (or DOTFLOW_REDIS_URL) to share rendered artifacts between
replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(observability.LogHooks{Logger: c.Logger})
			c.printInfo("Listening on %s (renderer: %s)", addr, runner.Renderer.Name())

			err = server.New(runner, c.Logger).ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}
