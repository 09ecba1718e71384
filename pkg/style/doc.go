// Package style resolves the visual appearance of flow diagram nodes and edges.
//
// # Overview
//
// Every node and edge carries a fully populated style record ([NodeStyle],
// [EdgeStyle]). Records are produced by merging three layers, highest
// priority first:
//
//  1. Per-call overrides ([NodeOverrides], [EdgeOverrides]); a nil field means
//     "unset".
//  2. The graph's [Theme] defaults; a zero field means "unset".
//  3. The built-in black-on-white baseline.
//
// Resolution is pure: themes are values, and a [Registry] is only modified by
// explicit [Registry.Register] calls on the caller's own instance.
//
// # Themes
//
// Six themes ship built in: default, dark, colorful, monochrome, blue and
// green. Looking up an unknown name returns the baseline theme instead of an
// error, so diagrams can be assembled before a theme is settled:
//
//	reg := style.Builtin()
//	t := reg.Lookup("ocean") // baseline, "ocean" is not registered
//
// Additional themes can be loaded from TOML with [LoadThemes].
//
// # Overrides from text
//
// The grammar parser and the HTTP API receive styles as key/value text.
// [ParseNodeOverrides] and [ParseEdgeOverrides] convert them and reject keys
// they do not recognize.
package style
