package style

import (
	"fmt"
	"strings"
)

// Shape is the outline drawn for a node.
type Shape int

const (
	Rectangle Shape = iota
	Ellipse
	Diamond
	Circle
	Triangle
	Hexagon
	Component
	Parallelogram
	RoundedRectangle
)

var shapeNames = [...]string{
	Rectangle:        "rectangle",
	Ellipse:          "ellipse",
	Diamond:          "diamond",
	Circle:           "circle",
	Triangle:         "triangle",
	Hexagon:          "hexagon",
	Component:        "component",
	Parallelogram:    "parallelogram",
	RoundedRectangle: "rounded_rectangle",
}

var shapeWire = [...]string{
	Rectangle:        "rect",
	Ellipse:          "ellipse",
	Diamond:          "diamond",
	Circle:           "circle",
	Triangle:         "triangle",
	Hexagon:          "hexagon",
	Component:        "component",
	Parallelogram:    "parallelogram",
	RoundedRectangle: "rounded",
}

// String returns the enumeration name, e.g. "rounded_rectangle".
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Wire returns the token emitted in DOT output, e.g. "rect".
func (s Shape) Wire() string {
	if s < 0 || int(s) >= len(shapeWire) {
		return shapeWire[Rectangle]
	}
	return shapeWire[s]
}

// Shapes returns every shape in declaration order.
func Shapes() []Shape {
	out := make([]Shape, len(shapeNames))
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

// ParseShape matches s case-insensitively against shape names and wire
// tokens. Dashes are treated as underscores, so "rounded-rectangle" works.
func ParseShape(s string) (Shape, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i := range shapeNames {
		if key == shapeNames[i] || key == shapeWire[i] {
			return Shape(i), true
		}
	}
	return Rectangle, false
}

// ShapeOrDefault is ParseShape falling back to Rectangle.
func ShapeOrDefault(s string) Shape {
	shape, _ := ParseShape(s)
	return shape
}

// Line is the stroke pattern of an edge.
type Line int

const (
	Solid Line = iota
	Dashed
	Dotted
	Bold
)

var lineNames = [...]string{
	Solid:  "solid",
	Dashed: "dashed",
	Dotted: "dotted",
	Bold:   "bold",
}

// String returns the wire token, which doubles as the name.
func (l Line) String() string {
	if l < 0 || int(l) >= len(lineNames) {
		return lineNames[Solid]
	}
	return lineNames[l]
}

// ParseLine matches s case-insensitively.
func ParseLine(s string) (Line, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range lineNames {
		if key == name {
			return Line(i), true
		}
	}
	return Solid, false
}

// MarshalText implements encoding.TextMarshaler.
func (l Line) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Line) UnmarshalText(text []byte) error {
	parsed, ok := ParseLine(string(text))
	if !ok {
		return fmt.Errorf("unknown line style %q (want solid, dashed, dotted or bold)", text)
	}
	*l = parsed
	return nil
}

// Direction is the rank direction hint passed to the layout engine.
type Direction string

const (
	TopDown   Direction = "TB"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
	BottomUp  Direction = "BT"
)

// Directions returns every direction in a stable order.
func Directions() []Direction {
	return []Direction{TopDown, LeftRight, RightLeft, BottomUp}
}

// ParseDirection accepts the DOT tokens (TB, LR, RL, BT) in any case.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case TopDown, LeftRight, RightLeft, BottomUp:
		return d, true
	}
	return TopDown, false
}
