// Package pkg holds the dotflow libraries.
//
// # Overview
//
// dotflow describes flow diagrams in Go or in a small line-oriented language
// and emits deterministic Graphviz DOT. The packages layer as follows:
//
//  1. [style] - shapes, line styles, themes and attribute overrides
//  2. [flow] - the graph model and its Go authoring APIs
//  3. [dsl] - the text language, parsed into a flow graph
//  4. [dot] - DOT serialization
//  5. [export] - rendering DOT to svg, png, pdf and jpg
//  6. [pipeline] - parse, serialize, render, with artifact caching
//
// Supporting packages:
//
//   - [cache] - file, Redis and no-op artifact caches
//   - [errors] - coded errors and line-aware parse errors
//   - [observability] - pipeline, cache and HTTP hooks
//   - [buildinfo] - version information
//
// # Data Flow
//
//	DSL text ──[dsl]──▶ flow.Graph ◀── Go code using [flow]
//	                        │
//	                      [dot]
//	                        │
//	                    DOT text ──[export]──▶ svg / png / pdf / jpg
//
// # Quick Start
//
// Build a graph in Go and print its DOT:
//
//	g := flow.New("checkout", flow.WithTheme("blue"))
//	g.Start("cart", "Cart").
//	    Decision("paid", "Paid?").
//	    End("done", "Done").
//	    Connect("cart", "paid", "").
//	    Connect("paid", "done", "yes")
//	if err := g.Err(); err != nil {
//	    return err
//	}
//	fmt.Print(dot.String(g))
//
// Or parse the text language:
//
//	g := flow.New("checkout")
//	err := dsl.NewParser().ParseString(g, "cart -> paid -> done : yes")
//
// Render through the pipeline, which also caches rendered artifacts:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, export.Auto(logger), logger)
//	res, err := runner.Execute(ctx, pipeline.Options{DSL: src, Formats: []string{"svg"}})
//	os.WriteFile("checkout.svg", res.Artifacts["svg"], 0o644)
package pkg
