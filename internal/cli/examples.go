package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotflow/pkg/dot"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/flow"
	"github.com/matzehuels/dotflow/pkg/style"
)

// example is a bundled flow built through one of the Go authoring APIs.
type example struct {
	description string
	build       func(g *flow.Graph) error
}

var examples = map[string]example{
	"simple": {
		description: "linear process with the fluent API",
		build: func(g *flow.Graph) error {
			return g.Start("start", "Start").
				Process("collect", "Collect data").
				Process("analyze", "Analyze").
				End("end", "Done").
				Connect("start", "collect", "").
				Connect("collect", "analyze", "").
				Connect("analyze", "end", "").
				Err()
		},
	},
	"decision": {
		description: "decision tree with the shape helpers",
		build: func(g *flow.Graph) error {
			s := flow.Shapes(g)
			steps := []func() error{
				func() error { _, err := s.Ellipse("start", "Request"); return err },
				func() error { _, err := s.Diamond("valid", "Valid?"); return err },
				func() error { _, err := s.Diamond("cached", "Cached?"); return err },
				func() error { _, err := s.Rectangle("fetch", "Fetch"); return err },
				func() error { _, err := s.Rectangle("serve", "Serve"); return err },
				func() error {
					_, err := s.Circle("reject", "Reject", style.NodeOverrides{FillColor: style.Ptr("#ffcccc")})
					return err
				},
				func() error { _, err := g.CreateEdge("start", "valid", "", style.EdgeOverrides{}); return err },
				func() error { _, err := g.CreateEdge("valid", "cached", "yes", style.EdgeOverrides{}); return err },
				func() error { _, err := s.DashedConnect("valid", "reject", "no"); return err },
				func() error { _, err := g.CreateEdge("cached", "serve", "yes", style.EdgeOverrides{}); return err },
				func() error { _, err := s.DottedConnect("cached", "fetch", "no"); return err },
				func() error { _, err := s.BoldConnect("fetch", "serve", ""); return err },
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}
			return nil
		},
	},
	"clustered": {
		description: "nested clusters with the mutation API",
		build: func(g *flow.Graph) error {
			g.Start("client", "Client")
			g.Cluster("backend", "Backend", func(g *flow.Graph) {
				g.Process("api", "API")
				g.Cluster("storage", "Storage", func(g *flow.Graph) {
					g.Add("db", "Postgres", style.Hexagon)
					g.Add("cache", "Redis", style.Component)
				}, flow.Attr{Key: "fillcolor", Value: "lightblue:white"})
				g.Connect("api", "db", "sql")
				g.Connect("api", "cache", "get", style.EdgeOverrides{Line: style.Ptr(style.Dashed)})
			})
			g.Connect("client", "api", "https")
			return g.Err()
		},
	},
	"workflow": {
		description: "order workflow with the chain idiom",
		build: func(g *flow.Graph) error {
			c := flow.NewChain(g).
				Advance("order").
				Label("submit").Advance("payment").
				Advance("ship").
				Advance("delivered")
			c.Reset().
				Advance("payment").
				Label("declined").AdvanceDashed("cancelled").
				RelabelLastEdge("card declined")
			if err := c.Err(); err != nil {
				return err
			}
			return g.SetNodeStyle("cancelled", style.NodeOverrides{FillColor: style.Ptr(flow.EndFill)})
		},
	},
}

func exampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildExample builds the named example with the given theme.
func buildExample(name string, reg *style.Registry, theme string) (*flow.Graph, error) {
	ex, ok := examples[name]
	if !ok {
		return nil, fmt.Errorf("unknown example %q (available: %s)", name, strings.Join(exampleNames(), ", "))
	}
	g := flow.New(name, flow.WithRegistry(reg), flow.WithTheme(theme))
	if err := ex.build(g); err != nil {
		return nil, fmt.Errorf("build example %s: %w", name, err)
	}
	return g, nil
}

func (c *CLI) examplesCommand() *cobra.Command {
	var (
		outDir  string
		formats []string
		list    bool
	)

	cmd := &cobra.Command{
		Use:       "examples [name...]",
		Short:     "Render the bundled example flows",
		ValidArgs: exampleNames(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range exampleNames() {
					c.printKeyValue(name, examples[name].description)
				}
				return nil
			}
			if len(args) == 0 {
				args = exampleNames()
			}

			ctx := contextOf(cmd)
			reg, err := c.registry()
			if err != nil {
				return err
			}
			rend, err := export.ByName(c.v.GetString("renderer"), c.Logger)
			if err != nil {
				return err
			}

			parsed := make([]export.Format, 0, len(formats))
			for _, s := range formats {
				f, err := export.ParseFormat(s)
				if err != nil {
					return err
				}
				parsed = append(parsed, f)
			}

			for _, name := range args {
				g, err := buildExample(name, reg, c.v.GetString("theme"))
				if err != nil {
					return err
				}
				src := []byte(dot.String(g))
				for _, f := range parsed {
					path := filepath.Join(outDir, name+f.Ext())
					if err := export.Export(ctx, rend, src, f, path); err != nil {
						c.printError("%s: %v", name, err)
						return err
					}
					c.printFile(path)
				}
			}
			c.printSuccess("Rendered %d examples", len(args))
			c.printNextStep("List themes", "dotflow themes")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "examples", "directory to write examples to")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"dot"}, "output formats")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list examples without rendering")
	return cmd
}
