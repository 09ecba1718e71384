package flow

import "github.com/matzehuels/dotflow/pkg/style"

// EndFill is the fill color applied to End nodes.
const EndFill = "#ffcccc"

// Fluent methods wrap the mutation API so calls can be chained:
//
//	g.Start("Begin", "").Process("Load", "Load data").End("Done", "").
//	    Connect("Begin", "Load", "").Connect("Load", "Done", "")
//	if err := g.Err(); err != nil { ... }
//
// After the first failure every later fluent call is a no-op.

// Err returns the first error raised by a fluent call.
func (g *Graph) Err() error { return g.err }

func (g *Graph) fail(err error) *Graph {
	if err != nil && g.err == nil {
		g.err = err
		g.logger.Debug("fluent chain stopped", "err", err)
	}
	return g
}

func (g *Graph) add(id, label string, shape style.Shape, base style.NodeOverrides, o []style.NodeOverrides) *Graph {
	if g.err != nil {
		return g
	}
	for _, extra := range o {
		base = base.Merge(extra)
	}
	_, err := g.CreateNode(id, label, shape, base)
	return g.fail(err)
}

// Add creates a node with an explicit shape.
func (g *Graph) Add(id, label string, shape style.Shape, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, shape, style.NodeOverrides{}, o)
}

// Start creates an ellipse node marking where the flow begins.
func (g *Graph) Start(id, label string, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, style.Ellipse, style.NodeOverrides{}, o)
}

// End creates an ellipse node filled with [EndFill].
func (g *Graph) End(id, label string, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, style.Ellipse, style.NodeOverrides{FillColor: style.Ptr(EndFill)}, o)
}

// Process creates a rectangle node.
func (g *Graph) Process(id, label string, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, style.Rectangle, style.NodeOverrides{}, o)
}

// Decision creates a diamond node.
func (g *Graph) Decision(id, label string, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, style.Diamond, style.NodeOverrides{}, o)
}

// InputOutput creates a parallelogram node.
func (g *Graph) InputOutput(id, label string, o ...style.NodeOverrides) *Graph {
	return g.add(id, label, style.Parallelogram, style.NodeOverrides{}, o)
}

// Connect creates an edge.
func (g *Graph) Connect(from, to, label string, o ...style.EdgeOverrides) *Graph {
	if g.err != nil {
		return g
	}
	var merged style.EdgeOverrides
	for _, extra := range o {
		merged = merged.Merge(extra)
	}
	_, err := g.CreateEdge(from, to, label, merged)
	return g.fail(err)
}

// Cluster runs fn inside the named cluster. Errors raised by fluent calls
// inside fn stop the chain like any other failure.
func (g *Graph) Cluster(name, label string, fn func(*Graph), attrs ...Attr) *Graph {
	if g.err != nil {
		return g
	}
	return g.fail(g.InCluster(name, label, func(g *Graph) error {
		fn(g)
		return nil
	}, attrs...))
}
