// Package dot serializes a flow graph to Graphviz DOT text.
//
// Output is deterministic: graph attributes in insertion order, a blank line,
// top-level nodes, top-level edges, then clusters, each cluster repeating the
// same order recursively. Labels are HTML-entity escaped so quotes and angle
// brackets survive; newlines become the DOT escape \n.
//
//	digraph signup {
//	  bgcolor="white";
//	  rankdir="TB";
//
//	  A [label="Start", shape=ellipse, color="black", ...];
//	  A -> B [style=solid, label="go", arrowhead="normal", ...];
//	  subgraph cluster_checks {
//	    label="Checks";
//	    style="filled";
//	    ...
//	  }
//	}
package dot

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/dotflow/pkg/flow"
)

const indentUnit = "  "

var plainID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Write serializes g to w.
func Write(w io.Writer, g *flow.Graph) error {
	_, err := io.WriteString(w, String(g))
	return err
}

// String serializes g and returns the DOT text.
func String(g *flow.Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", graphName(g.Name()))

	for _, a := range g.Attrs() {
		writeAttr(&buf, indentUnit, a)
	}
	buf.WriteString("\n")

	writeBody(&buf, indentUnit, g.Nodes(), g.Edges(), g.Clusters())
	buf.WriteString("}\n")
	return buf.String()
}

func writeBody(buf *bytes.Buffer, indent string, nodes []*flow.Node, edges []*flow.Edge, clusters []*flow.Cluster) {
	for _, n := range nodes {
		fmt.Fprintf(buf, "%s%s [%s];\n", indent, n.ID, strings.Join(nodeAttrs(n), ", "))
	}
	for _, e := range edges {
		fmt.Fprintf(buf, "%s%s -> %s [%s];\n", indent, e.From, e.To, strings.Join(edgeAttrs(e), ", "))
	}
	for _, c := range clusters {
		writeCluster(buf, indent, c)
	}
}

func writeCluster(buf *bytes.Buffer, indent string, c *flow.Cluster) {
	inner := indent + indentUnit
	fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, c.InternalName())
	fmt.Fprintf(buf, "%slabel=%s;\n", inner, quoteLabel(c.Label))
	for _, a := range c.Attrs() {
		writeAttr(buf, inner, a)
	}
	writeBody(buf, inner, c.Nodes(), c.Edges(), c.Clusters())
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeAttr(buf *bytes.Buffer, indent string, a flow.Attr) {
	fmt.Fprintf(buf, "%s%s=%s;\n", indent, a.Key, quote(a.Value))
}

func nodeAttrs(n *flow.Node) []string {
	s := n.Style
	return []string{
		"label=" + quoteLabel(n.Label),
		"shape=" + n.Shape.Wire(),
		"color=" + quote(s.Color),
		"fillcolor=" + quote(s.FillColor),
		"fontcolor=" + quote(s.FontColor),
		"fontsize=" + strconv.Itoa(s.FontSize),
		"fontname=" + quote(s.FontName),
		"style=" + quote(s.Fill),
		"width=" + formatFloat(s.Width),
		"height=" + formatFloat(s.Height),
	}
}

func edgeAttrs(e *flow.Edge) []string {
	s := e.Style
	attrs := []string{"style=" + s.Line.String()}
	if e.Label != "" {
		attrs = append(attrs, "label="+quoteLabel(e.Label))
	}
	attrs = append(attrs, "arrowhead="+quote(s.ArrowHead))
	if s.ArrowTail != "" {
		attrs = append(attrs, "arrowtail="+quote(s.ArrowTail), "dir=both")
	}
	return append(attrs,
		"color="+quote(s.Color),
		"fontcolor="+quote(s.FontColor),
		"fontsize="+strconv.Itoa(s.FontSize),
		"fontname="+quote(s.FontName),
	)
}

// EscapeLabel makes label text safe inside a quoted DOT string.
func EscapeLabel(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

func quoteLabel(s string) string { return `"` + EscapeLabel(s) + `"` }

// quote wraps a style value. Values are validated upstream to hold no quotes
// or control characters; backslashes are still escaped.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}

func graphName(name string) string {
	if plainID.MatchString(name) {
		return name
	}
	name = strings.ReplaceAll(name, `\`, `\\`)
	name = strings.ReplaceAll(name, `"`, `\"`)
	return `"` + strings.ReplaceAll(name, "\n", `\n`) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
