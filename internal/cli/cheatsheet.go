package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotflow/pkg/style"
)

var cheatsheetSections = []struct {
	title string
	lines []string
}{
	{"Connections", []string{
		"A -> B                     edge; missing nodes become rectangles",
		"A -> B -> C : done         chain of hops, label on the last one",
		"A {dashed} -> B            line style: dashed, dotted, bold",
		"A -> B [color=red]         edge attributes for every hop",
	}},
	{"Nodes", []string{
		"Check [shape=diamond, label='Valid?']",
		"Done [shape=ellipse, fillcolor=\"#ffcccc\"]",
		"Orphan                     bare identifier, default rectangle",
	}},
	{"Node attributes", []string{strings.Join(style.NodeKeys, ", ") + ", label, shape"}},
	{"Edge attributes", []string{strings.Join(style.EdgeKeys, ", ") + ", label"}},
	{"Other", []string{
		"# comment                  blank lines and comments are skipped",
		"A -> B;                    trailing ';' accepted (DOT round trip)",
	}},
}

func (c *CLI) cheatsheetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "cheatsheet",
		Aliases: []string{"cheat-sheet"},
		Short:   "Print the DSL quick reference",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(c.out, renderCheatsheet())
			return nil
		},
	}
}

func renderCheatsheet() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("dotflow DSL") + "\n\n")
	for _, s := range cheatsheetSections {
		b.WriteString(StyleTitle.Render(s.title) + "\n")
		for _, l := range s.lines {
			b.WriteString("  " + l + "\n")
		}
		b.WriteString("\n")
	}

	shapes := make([]string, 0, len(style.Shapes()))
	for _, s := range style.Shapes() {
		shapes = append(shapes, s.Wire())
	}
	b.WriteString(StyleTitle.Render("Shapes") + "\n  " + strings.Join(shapes, ", ") + "\n\n")

	dirs := make([]string, 0, 4)
	for _, d := range style.Directions() {
		dirs = append(dirs, string(d))
	}
	b.WriteString(StyleTitle.Render("Directions") + "\n  " + strings.Join(dirs, ", ") + "  (--direction)\n")
	return b.String()
}
