// Package flow provides the in-memory model for flow diagrams and the
// mutation API that every authoring surface goes through.
//
// # Model
//
// A [Graph] owns nodes, edges and clusters for one diagram. Node identifiers
// are unique across the whole graph, whichever cluster they live in. Edges
// may only connect nodes that already exist; forward references fail with a
// NODE_NOT_FOUND error naming the missing side. Edges are always appended,
// so the same pair may be connected several times.
//
// Identifiers must match [A-Za-z_][A-Za-z0-9_]* after whitespace removal, so
// "Load Data" and "LoadData" name the same node. Validation and style
// resolution happen before the model is touched: a failed call leaves the
// graph exactly as it was.
//
// # Scopes
//
// New nodes and edges go to the active scope: the innermost open cluster, or
// the top level. [Graph.EnterCluster] pushes a cluster and [Graph.ExitCluster]
// pops it. [Graph.InCluster] pairs the two around a callback:
//
//	g := flow.New("pipeline")
//	err := g.InCluster("ingest", "Ingest", func(g *flow.Graph) error {
//	    _, err := g.CreateNode("Fetch", "", style.Rectangle, style.NodeOverrides{})
//	    return err
//	})
//
// Creating an identifier that already exists in the same scope replaces the
// node in place. Creating it from a different scope is rejected.
//
// # Authoring idioms
//
// Three thin layers sit on top of the mutation API:
//
//   - Fluent methods on [Graph] ([Graph.Start], [Graph.Process],
//     [Graph.Connect], ...) return the graph so calls can be chained. The
//     first error is kept and reported by [Graph.Err].
//   - [Shapes] returns a [ShapeAPI] with one method per node shape.
//   - [NewChain] returns a [Chain] that tracks the last visited node and a
//     pending edge label.
//
// The DSL parser in package dsl is the fourth surface.
//
// # Concurrency
//
// A Graph performs no locking. Callers must not mutate one Graph from several
// goroutines at once.
package flow
