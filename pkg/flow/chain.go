package flow

import (
	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/style"
)

// Chain builds linear paths by remembering the last visited node and an
// optional pending label for the next edge:
//
//	c := flow.NewChain(g)
//	c.Advance("Begin").Label("ok").Advance("Work").Advance("Done")
//
// creates Begin -ok-> Work -> Done. Missing nodes are created on the fly: the
// first node of a chain as an ellipse, later ones as rectangles. Existing
// nodes are reused untouched.
//
// A Chain is not reset between diagrams. Call [Chain.Reset] before starting
// an unrelated path, otherwise its first node is connected to the previous
// path's last node.
type Chain struct {
	g       *Graph
	last    string
	pending *string
	err     error
}

// NewChain returns an empty chain over g.
func NewChain(g *Graph) *Chain { return &Chain{g: g} }

// Advance moves to id, connecting from the last node if there is one.
func (c *Chain) Advance(id string) *Chain { return c.advance(id, style.Solid) }

// AdvanceDashed is Advance with a dashed edge.
func (c *Chain) AdvanceDashed(id string) *Chain { return c.advance(id, style.Dashed) }

func (c *Chain) advance(id string, line style.Line) *Chain {
	if c.err != nil {
		return c
	}
	norm := derrors.NormalizeID(id)
	if !c.g.HasNode(norm) {
		shape := style.Rectangle
		if c.last == "" {
			shape = style.Ellipse
		}
		n, err := c.g.CreateNode(norm, "", shape, style.NodeOverrides{})
		if err != nil {
			c.err = err
			return c
		}
		norm = n.ID
	}

	if c.last != "" {
		label := ""
		if c.pending != nil {
			label = *c.pending
		}
		if _, err := c.g.CreateEdge(c.last, norm, label, style.EdgeOverrides{Line: &line}); err != nil {
			c.err = err
			return c
		}
		c.pending = nil
	}
	c.last = norm
	return c
}

// Label sets the label for the next edge created by Advance.
func (c *Chain) Label(text string) *Chain {
	if c.err != nil {
		return c
	}
	if err := derrors.ValidateLabel(text, c.g.maxLabel); err != nil {
		c.err = err
		return c
	}
	c.pending = &text
	return c
}

// RelabelLastEdge replaces the label of the most recent edge, anywhere in
// the graph, that points at the current last node.
func (c *Chain) RelabelLastEdge(text string) *Chain {
	if c.err != nil {
		return c
	}
	if err := derrors.ValidateLabel(text, c.g.maxLabel); err != nil {
		c.err = err
		return c
	}
	if c.last == "" {
		c.err = derrors.New(derrors.ErrCodeNodeNotFound, "chain has no current node")
		return c
	}
	edges := c.g.allEdges
	for i := len(edges) - 1; i >= 0; i-- {
		if edges[i].To == c.last {
			edges[i].Label = text
			return c
		}
	}
	c.err = derrors.New(derrors.ErrCodeNodeNotFound, "no edge points at %q", c.last)
	return c
}

// Reset forgets the last node, the pending label and any error.
func (c *Chain) Reset() *Chain {
	c.last, c.pending, c.err = "", nil, nil
	return c
}

// Last returns the ID of the last visited node, or "".
func (c *Chain) Last() string { return c.last }

// Err returns the first error raised since the last Reset.
func (c *Chain) Err() error { return c.err }
