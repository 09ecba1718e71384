// Package dsl parses the dotflow text language into a [flow.Graph].
//
// The language is line oriented. Blank lines and lines starting with '#' are
// skipped. Every other line is one statement:
//
//	# connections; missing nodes are created as rectangles
//	Start -> Load : begin
//	Load {dashed} -> Check
//	Check -> Ok -> Done [color=green]
//
//	# node declarations
//	Check [shape=diamond, label='Valid?']
//	Done [shape=ellipse, fillcolor="#ffcccc"]
//
//	# a bare identifier creates a default node
//	Orphan
//
// A connection may chain several hops; the ": LABEL" suffix labels the last
// one. Braces after an endpoint hold free-form modifiers; "dashed", "dotted"
// and "bold" select the line style of the hop leaving that endpoint (or, on
// the final endpoint, the hop entering it). An optional [k=v, ...] block sets
// edge attributes for every hop. A trailing ';' is accepted, so node and edge
// lines written by package dot parse back. Labels from either source decode
// the serializer's escapes: \n, \\, \" and HTML entities such as &lt;.
//
// Whitespace inside an identifier is dropped in every statement form, so
// "Load Data", "Load Data -> B" and "Load Data [shape=ellipse]" all name
// LoadData. Every check for a line runs before the graph is touched.
//
// Connections never modify existing nodes. Declarations and bare identifiers
// replace a node that already exists.
//
// Parsing is apply-until-failure: statements before a failing line stay in
// the graph. Failures are reported as [*errors.ParseError] values carrying
// the 1-based line number and the raw line text. Their cause is PARSE_ERROR
// for syntax problems, or the VALIDATION_FAILED / NODE_NOT_FOUND error raised
// by the graph while applying the line.
package dsl
