package dsl

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/flow"
	"github.com/matzehuels/dotflow/pkg/style"
)

const maxLineBytes = 1 << 20

var (
	bareRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	nodeRe = regexp.MustCompile(`^([^\[\]{}:"']+?)\s*\[(.*)\]$`)
	partRe = regexp.MustCompile(`^([^{}]*?)\s*(?:\{([^{}]*)\})?$`)
)

// Parser applies DSL text to a graph. The zero value is not usable; use
// [NewParser]. A Parser holds no state between calls.
type Parser struct {
	logger *log.Logger
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger logs every applied statement at debug level.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser returns a parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads r line by line and applies each statement to g.
//
// Parsing stops at the first failing line. Lines before it stay applied; the
// returned error is a [*derrors.ParseError] with the line number and text.
func (p *Parser) Parse(g *flow.Graph, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo, applied := 0, 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		ok, err := p.statement(g, raw)
		if err != nil {
			p.logger.Debug("statement failed", "line", lineNo, "err", err)
			return &derrors.ParseError{Line: lineNo, Text: raw, Cause: err}
		}
		if ok {
			applied++
		}
	}
	if err := sc.Err(); err != nil {
		return &derrors.ParseError{Line: lineNo + 1, Cause: derrors.Wrap(derrors.ErrCodeParse, err, "read input")}
	}
	p.logger.Debug("parsed", "lines", lineNo, "statements", applied, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// ParseString is Parse over a string.
func (p *Parser) ParseString(g *flow.Graph, s string) error {
	return p.Parse(g, strings.NewReader(s))
}

// Parse applies DSL text from r to g with a default parser.
func Parse(g *flow.Graph, r io.Reader) error { return NewParser().Parse(g, r) }

// ParseString applies DSL text to g with a default parser.
func ParseString(g *flow.Graph, s string) error { return NewParser().ParseString(g, s) }

// statement applies one line. It reports false for blank and comment lines.
func (p *Parser) statement(g *flow.Graph, raw string) (bool, error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	if findTop(line, "->") >= 0 {
		return true, p.connection(g, line)
	}

	head := strings.TrimSpace(strings.TrimSuffix(line, ";"))
	if m := nodeRe.FindStringSubmatch(head); m != nil {
		return true, p.declaration(g, m[1], m[2])
	}
	if id := derrors.NormalizeID(head); bareRe.MatchString(id) {
		_, err := g.CreateNode(id, "", style.Rectangle, style.NodeOverrides{})
		p.logger.Debug("bare node", "id", id)
		return true, err
	}
	return false, derrors.New(derrors.ErrCodeParse, "unrecognized statement")
}

// declaration handles `ID [k=v, ...]`.
func (p *Parser) declaration(g *flow.Graph, id, body string) error {
	attrs, err := splitAttrs(body)
	if err != nil {
		return err
	}

	shape, label := style.Rectangle, ""
	rest := make(map[string]string, len(attrs))
	for _, a := range attrs {
		switch a.key {
		case "shape":
			s, ok := style.ParseShape(a.value)
			if !ok {
				p.logger.Debug("unknown shape, using rectangle", "shape", a.value)
			}
			shape = s
		case "label":
			label = unescapeLabel(a.value)
		default:
			rest[a.key] = a.value
		}
	}
	o, err := style.ParseNodeOverrides(rest)
	if err != nil {
		return err
	}

	n, err := g.CreateNode(strings.TrimSpace(id), label, shape, o)
	if err != nil {
		return err
	}
	p.logger.Debug("node", "id", n.ID, "shape", n.Shape, "label", n.Label)
	return nil
}

type hop struct {
	id   string
	line *style.Line
}

// connection handles `A {mods}? -> B (-> C)* ([attrs])? ;? (: LABEL)?`.
func (p *Parser) connection(g *flow.Graph, line string) error {
	head, label, hasLabel := line, "", false
	if i := findTop(line, ":"); i >= 0 {
		head, label, hasLabel = line[:i], unescapeLabel(strings.TrimSpace(line[i+1:])), true
	}
	head = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(head), ";"))

	var o style.EdgeOverrides
	if strings.HasSuffix(head, "]") {
		open := findTop(head, "[")
		if open < 0 {
			return derrors.New(derrors.ErrCodeParse, "unbalanced ']' in edge attributes")
		}
		attrLabel, attrs, err := edgeAttrs(head[open+1 : len(head)-1])
		if err != nil {
			return err
		}
		if !hasLabel {
			label = attrLabel
		}
		o = attrs
		head = head[:open]
	}

	hops, err := splitHops(head)
	if err != nil {
		return err
	}
	for i := range hops {
		id, err := derrors.ValidateID(hops[i].id)
		if err != nil {
			return err
		}
		hops[i].id = id
	}

	// Everything that can fail is checked before the graph changes.
	if err := derrors.ValidateLabel(label, g.MaxLabelLength()); err != nil {
		return err
	}
	last := len(hops) - 1
	overrides := make([]style.EdgeOverrides, last)
	for i := range overrides {
		eo := style.EdgeOverrides{Line: hops[i].line}
		if eo.Line == nil && i+1 == last {
			eo.Line = hops[last].line
		}
		eo = eo.Merge(o)
		if _, err := style.ResolveEdge(g.Theme(), eo); err != nil {
			return err
		}
		overrides[i] = eo
	}

	for _, h := range hops {
		if g.HasNode(h.id) {
			continue
		}
		if _, err := g.CreateNode(h.id, "", style.Rectangle, style.NodeOverrides{}); err != nil {
			return err
		}
	}

	for i, eo := range overrides {
		text := ""
		if i+1 == last {
			text = label
		}
		if _, err := g.CreateEdge(hops[i].id, hops[i+1].id, text, eo); err != nil {
			return err
		}
		p.logger.Debug("edge", "from", hops[i].id, "to", hops[i+1].id, "label", text)
	}
	return nil
}

// splitHops splits `A {dashed} -> B -> C` into endpoints with their modifiers.
func splitHops(head string) ([]hop, error) {
	parts := splitTop(head, "->")
	hops := make([]hop, 0, len(parts))
	for i, part := range parts {
		m := partRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, derrors.New(derrors.ErrCodeParse, "malformed endpoint %q", strings.TrimSpace(part))
		}
		id := strings.TrimSpace(m[1])
		if id == "" {
			side := "target"
			if i == 0 {
				side = "source"
			}
			return nil, derrors.New(derrors.ErrCodeParse, "missing %s node", side)
		}
		hops = append(hops, hop{id: id, line: lineModifier(m[2])})
	}
	return hops, nil
}

// lineModifier picks the line style named inside {...}. Other words are ignored.
func lineModifier(mods string) *style.Line {
	mods = strings.ToLower(mods)
	for _, l := range []style.Line{style.Dashed, style.Dotted, style.Bold} {
		if strings.Contains(mods, l.String()) {
			return &l
		}
	}
	return nil
}

// edgeAttrs converts an edge attribute block. "label" is returned separately;
// "dir" is derived from arrowtail and skipped.
func edgeAttrs(body string) (string, style.EdgeOverrides, error) {
	attrs, err := splitAttrs(body)
	if err != nil {
		return "", style.EdgeOverrides{}, err
	}
	label := ""
	rest := make(map[string]string, len(attrs))
	for _, a := range attrs {
		switch a.key {
		case "label":
			label = unescapeLabel(a.value)
		case "dir":
		default:
			rest[a.key] = a.value
		}
	}
	o, err := style.ParseEdgeOverrides(rest)
	return label, o, err
}

// findTop returns the index of the first sep outside quotes, [...] and {...}.
func findTop(s, sep string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		case c == '"' || c == '\'':
			quote = c
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			return i
		}
		switch c {
		case '[', '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return -1
}

// splitTop splits s around every top-level sep.
func splitTop(s, sep string) []string {
	var parts []string
	for {
		i := findTop(s, sep)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+len(sep):]
	}
}
