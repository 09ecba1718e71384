package flow

import (
	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/style"
)

// Node is a diagram vertex. Label is never empty: it defaults to the ID.
type Node struct {
	ID    string
	Label string
	Shape style.Shape
	Style style.NodeStyle
}

// Edge is a directed connection. Label may be empty.
type Edge struct {
	From  string
	To    string
	Label string
	Style style.EdgeStyle
}

// CreateNode validates and inserts a node into the active scope.
//
// The ID is normalized by removing whitespace. An empty label means "use the
// ID". If the ID already exists in the active scope the node is replaced in
// place, keeping its position. If it exists in another scope the call fails.
func (g *Graph) CreateNode(id, label string, shape style.Shape, o style.NodeOverrides) (*Node, error) {
	id, err := derrors.ValidateID(id)
	if err != nil {
		return nil, err
	}
	if err := derrors.ValidateLabel(label, g.maxLabel); err != nil {
		return nil, err
	}
	st, err := style.ResolveNode(g.theme, o)
	if err != nil {
		return nil, err
	}
	if label == "" {
		label = id
	}

	s := g.active()
	if owner, ok := g.owner[id]; ok && owner != s {
		return nil, derrors.New(derrors.ErrCodeValidation,
			"node %q already exists in %s, cannot redefine it in %s", id, scopeName(owner), scopeName(s))
	}

	n := Node{ID: id, Label: label, Shape: shape, Style: st}
	if existing, ok := s.nodes[id]; ok {
		*existing = n
		g.logger.Debug("node replaced", "id", id, "scope", scopeName(s))
		return existing, nil
	}

	node := &n
	s.nodes[id] = node
	s.nodeOrder = append(s.nodeOrder, id)
	g.owner[id] = s
	g.logger.Debug("node created", "id", id, "shape", shape, "scope", scopeName(s))
	return node, nil
}

// CreateEdge connects two existing nodes and appends the edge to the active
// scope. Endpoints are looked up across every scope.
func (g *Graph) CreateEdge(from, to, label string, o style.EdgeOverrides) (*Edge, error) {
	from, err := g.resolveEndpoint(from, "source")
	if err != nil {
		return nil, err
	}
	to, err = g.resolveEndpoint(to, "target")
	if err != nil {
		return nil, err
	}
	if err := derrors.ValidateLabel(label, g.maxLabel); err != nil {
		return nil, err
	}
	st, err := style.ResolveEdge(g.theme, o)
	if err != nil {
		return nil, err
	}

	e := &Edge{From: from, To: to, Label: label, Style: st}
	s := g.active()
	s.edges = append(s.edges, e)
	g.allEdges = append(g.allEdges, e)
	g.logger.Debug("edge created", "from", from, "to", to, "label", label, "scope", scopeName(s))
	return e, nil
}

func (g *Graph) resolveEndpoint(id, side string) (string, error) {
	norm, err := derrors.ValidateID(id)
	if err != nil {
		return "", err
	}
	if _, ok := g.owner[norm]; !ok {
		return "", derrors.New(derrors.ErrCodeNodeNotFound, "%s node %q not found", side, norm)
	}
	return norm, nil
}

// SetNodeStyle applies overrides on top of a node's current style.
func (g *Graph) SetNodeStyle(id string, o style.NodeOverrides) error {
	n, ok := g.Node(id)
	if !ok {
		return derrors.New(derrors.ErrCodeNodeNotFound, "node %q not found", derrors.NormalizeID(id))
	}
	st, err := style.ApplyNode(n.Style, o)
	if err != nil {
		return err
	}
	n.Style = st
	g.logger.Debug("node restyled", "id", n.ID)
	return nil
}
