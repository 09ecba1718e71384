package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotflow/pkg/export"
)

const doctorProbe = "digraph probe { a -> b; }"

func (c *CLI) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check which renderers are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			if path, err := export.LookPath(export.DefaultBinary); err != nil {
				c.printWarning("graphviz binary not found; svg, png and jpg fall back to the embedded renderer, pdf is unavailable")
			} else {
				c.printSuccess("graphviz binary")
				c.printDetail("%s", path)
			}

			if err := probe(ctx, &export.EmbeddedRenderer{Timeout: 20 * time.Second}); err != nil {
				c.printError("embedded renderer: %v", err)
			} else {
				c.printSuccess("embedded renderer")
			}

			dir, err := cacheDir()
			if err == nil {
				c.printKeyValue("cache", dir)
			}
			c.printKeyValue("renderer", c.v.GetString("renderer"))
			c.printKeyValue("theme", c.v.GetString("theme"))
			return nil
		},
	}
}

func probe(ctx context.Context, r export.Renderer) error {
	_, err := r.Render(ctx, []byte(doctorProbe), export.SVG)
	return err
}
