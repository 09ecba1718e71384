package flow

import (
	"io"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/style"
)

// Graph is one flow diagram.
//
// The zero value is not usable; create graphs with [New].
// A Graph is not safe for concurrent use.
type Graph struct {
	name      string
	theme     style.Theme
	direction style.Direction
	maxLabel  int
	logger    *log.Logger

	attrs Attrs
	root  scope
	stack []*Cluster

	owner    map[string]*scope // node ID -> scope holding it
	allEdges []*Edge

	err error // first fluent-call failure
}

// Option configures a [Graph].
type Option func(*config)

type config struct {
	themeName string
	registry  *style.Registry
	direction style.Direction
	maxLabel  int
	logger    *log.Logger
}

// WithTheme selects a theme by name. Unknown names fall back to the baseline.
func WithTheme(name string) Option {
	return func(c *config) { c.themeName = name }
}

// WithRegistry sets the registry themes are looked up in.
// The default is [style.Builtin].
func WithRegistry(r *style.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithDirection sets the rank direction. Default: [style.TopDown].
func WithDirection(d style.Direction) Option {
	return func(c *config) { c.direction = d }
}

// WithMaxLabelLength sets the label ceiling in runes.
// Values <= 0 keep the default of [derrors.DefaultMaxLabelLength].
func WithMaxLabelLength(n int) Option {
	return func(c *config) { c.maxLabel = n }
}

// WithLogger enables debug logging of mutations.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New creates an empty graph. The graph attributes start with bgcolor from
// the theme background and rankdir from the direction.
func New(name string, opts ...Option) *Graph {
	c := config{direction: style.TopDown}
	for _, opt := range opts {
		opt(&c)
	}
	if c.registry == nil {
		c.registry = style.Builtin()
	}
	if c.maxLabel <= 0 {
		c.maxLabel = derrors.DefaultMaxLabelLength
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if d, ok := style.ParseDirection(string(c.direction)); ok {
		c.direction = d
	} else {
		c.direction = style.TopDown
	}

	theme := c.registry.Lookup(c.themeName)
	g := &Graph{
		name:      name,
		theme:     theme,
		direction: c.direction,
		maxLabel:  c.maxLabel,
		logger:    c.logger,
		root:      newScope(nil),
		owner:     make(map[string]*scope),
	}
	g.attrs.Set("bgcolor", theme.BackgroundOrDefault())
	g.attrs.Set("rankdir", string(c.direction))
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Theme returns the theme nodes and edges are resolved against.
func (g *Graph) Theme() style.Theme { return g.theme }

// Direction returns the rank direction given at construction.
func (g *Graph) Direction() style.Direction { return g.direction }

// MaxLabelLength returns the label ceiling in runes.
func (g *Graph) MaxLabelLength() int { return g.maxLabel }

// SetGraphAttr sets a graph-level attribute. The key must be a valid
// identifier. Re-setting a key keeps its original position.
func (g *Graph) SetGraphAttr(key, value string) error {
	a, err := newAttr(key, value)
	if err != nil {
		return err
	}
	g.attrs.Set(a.Key, a.Value)
	g.logger.Debug("graph attribute", "key", a.Key, "value", a.Value)
	return nil
}

// Attrs returns a copy of the graph attributes in insertion order.
func (g *Graph) Attrs() Attrs { return g.attrs.clone() }

// Node returns the node with the given ID from any scope.
func (g *Graph) Node(id string) (*Node, bool) {
	id = derrors.NormalizeID(id)
	s, ok := g.owner[id]
	if !ok {
		return nil, false
	}
	return s.nodes[id], true
}

// HasNode reports whether a node with the given ID exists in any scope.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.owner[derrors.NormalizeID(id)]
	return ok
}

// Nodes returns the top-level nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.root.Nodes() }

// Edges returns the top-level edges in declaration order.
func (g *Graph) Edges() []*Edge { return g.root.Edges() }

// Clusters returns the top-level clusters in insertion order.
func (g *Graph) Clusters() []*Cluster { return g.root.Clusters() }

// AllEdges returns every edge in the graph in creation order, across scopes.
func (g *Graph) AllEdges() []*Edge { return append([]*Edge(nil), g.allEdges...) }

// NodeCount returns the number of nodes in all scopes.
func (g *Graph) NodeCount() int { return len(g.owner) }

// EdgeCount returns the number of edges in all scopes.
func (g *Graph) EdgeCount() int { return len(g.allEdges) }

// Scope returns the innermost open cluster, or nil at the top level.
func (g *Graph) Scope() *Cluster {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1]
}

// Depth returns the number of open clusters.
func (g *Graph) Depth() int { return len(g.stack) }

func (g *Graph) active() *scope {
	if c := g.Scope(); c != nil {
		return &c.scope
	}
	return &g.root
}

// scopeName describes where a scope sits, for error messages.
func scopeName(s *scope) string {
	if s.cluster == nil {
		return "top level"
	}
	return "cluster " + s.cluster.Name
}

// scope is the shared container behind the top level and every cluster.
type scope struct {
	cluster *Cluster // nil for the top level

	nodes     map[string]*Node
	nodeOrder []string
	edges     []*Edge
	clusters  map[string]*Cluster
	subOrder  []string
}

func newScope(c *Cluster) scope {
	return scope{
		cluster:  c,
		nodes:    make(map[string]*Node),
		clusters: make(map[string]*Cluster),
	}
}

// Nodes returns the nodes of this scope in insertion order.
func (s *scope) Nodes() []*Node {
	out := make([]*Node, len(s.nodeOrder))
	for i, id := range s.nodeOrder {
		out[i] = s.nodes[id]
	}
	return out
}

// Edges returns the edges of this scope in declaration order.
func (s *scope) Edges() []*Edge { return append([]*Edge(nil), s.edges...) }

// Clusters returns the nested clusters of this scope in insertion order.
func (s *scope) Clusters() []*Cluster {
	out := make([]*Cluster, len(s.subOrder))
	for i, name := range s.subOrder {
		out[i] = s.clusters[name]
	}
	return out
}
