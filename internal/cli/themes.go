package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotflow/pkg/style"
)

func (c *CLI) themesCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Long: `List the built-in themes and any loaded with --themes-file.

A themes file is TOML with one [[theme]] table per theme:

  [[theme]]
  name = "sunset"
  description = "Warm oranges"
  background = "#fff8f0"
  [theme.node]
  fill_color = "#ffd8b0"
  [theme.edge]
  color = "#c05000"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			if namesOnly {
				for _, name := range reg.Names() {
					fmt.Fprintln(c.out, name)
				}
				return nil
			}
			fmt.Fprintln(c.out, renderThemeTable(reg.Themes()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "print theme names only")
	return cmd
}

func renderThemeTable(themes []style.Theme) string {
	rows := make([][]string, 0, len(themes))
	for _, t := range themes {
		n, _ := style.ResolveNode(t, style.NodeOverrides{})
		e, _ := style.ResolveEdge(t, style.EdgeOverrides{})
		rows = append(rows, []string{t.Name, t.Description, t.BackgroundOrDefault(), n.FillColor, n.Color, e.Color})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Theme", "Description", "Background", "Fill", "Outline", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 1:
				return lipgloss.NewStyle()
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
