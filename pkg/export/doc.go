// Package export renders DOT source with Graphviz and writes the result.
//
// Two renderers are provided. [ExecRenderer] runs the system `dot` binary
// and supports png, svg, pdf and jpg. [EmbeddedRenderer] uses the
// WebAssembly build from github.com/goccy/go-graphviz and needs no install,
// but cannot produce pdf. [Auto] prefers the binary when it is on PATH.
//
// Failures carry distinguishable codes from pkg/errors:
//
//   - EXPORT_TOOL_NOT_FOUND: the binary is missing
//   - EXPORT_REJECTED: Graphviz refused the input
//   - EXPORT_TIMEOUT: the render exceeded its deadline or was cancelled
//   - UNSUPPORTED_FORMAT: the renderer cannot produce the format
//
// [Export] writes through a temporary file and a rename, so the target path
// either holds a complete document or is left untouched.
package export
