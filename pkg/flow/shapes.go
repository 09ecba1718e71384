package flow

import "github.com/matzehuels/dotflow/pkg/style"

// ShapeAPI creates nodes by shape and edges by line style.
// It holds no state of its own; every call goes straight to the graph.
type ShapeAPI struct {
	g *Graph
}

// Shapes returns a [ShapeAPI] bound to g.
func Shapes(g *Graph) ShapeAPI { return ShapeAPI{g: g} }

func (s ShapeAPI) node(id, label string, shape style.Shape, o []style.NodeOverrides) (*Node, error) {
	var merged style.NodeOverrides
	for _, extra := range o {
		merged = merged.Merge(extra)
	}
	return s.g.CreateNode(id, label, shape, merged)
}

func (s ShapeAPI) Rectangle(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Rectangle, o)
}

func (s ShapeAPI) Diamond(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Diamond, o)
}

func (s ShapeAPI) Circle(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Circle, o)
}

func (s ShapeAPI) Ellipse(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Ellipse, o)
}

func (s ShapeAPI) Triangle(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Triangle, o)
}

func (s ShapeAPI) Hexagon(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Hexagon, o)
}

func (s ShapeAPI) Component(id, label string, o ...style.NodeOverrides) (*Node, error) {
	return s.node(id, label, style.Component, o)
}

func (s ShapeAPI) connect(from, to, label string, line style.Line) (*Edge, error) {
	return s.g.CreateEdge(from, to, label, style.EdgeOverrides{Line: &line})
}

// DashedConnect creates a dashed edge.
func (s ShapeAPI) DashedConnect(from, to, label string) (*Edge, error) {
	return s.connect(from, to, label, style.Dashed)
}

// DottedConnect creates a dotted edge.
func (s ShapeAPI) DottedConnect(from, to, label string) (*Edge, error) {
	return s.connect(from, to, label, style.Dotted)
}

// BoldConnect creates a bold edge.
func (s ShapeAPI) BoldConnect(from, to, label string) (*Edge, error) {
	return s.connect(from, to, label, style.Bold)
}
