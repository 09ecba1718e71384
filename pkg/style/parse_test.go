package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

func TestParseNodeOverrides(t *testing.T) {
	o, err := ParseNodeOverrides(map[string]string{
		"FillColor": "#ffcccc",
		"fontsize":  "14",
		"width":     "1.5",
		"style":     "rounded,filled",
	})
	require.NoError(t, err)

	assert.Equal(t, "#ffcccc", *o.FillColor)
	assert.Equal(t, 14, *o.FontSize)
	assert.InDelta(t, 1.5, *o.Width, 1e-9)
	assert.Equal(t, "rounded,filled", *o.Fill)
	assert.Nil(t, o.Color)
}

func TestParseNodeOverridesErrors(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  string
	}{
		{"unknown key", map[string]string{"penwidth": "2"}, "penwidth"},
		{"bad int", map[string]string{"fontsize": "big"}, "integer"},
		{"bad float", map[string]string{"height": "tall"}, "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNodeOverrides(tt.attrs)
			require.Error(t, err)
			assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseEdgeOverrides(t *testing.T) {
	o, err := ParseEdgeOverrides(map[string]string{"style": "Dotted", "arrowhead": "vee", "color": "red"})
	require.NoError(t, err)
	assert.Equal(t, Dotted, *o.Line)
	assert.Equal(t, "vee", *o.ArrowHead)
	assert.Equal(t, "red", *o.Color)

	_, err = ParseEdgeOverrides(map[string]string{"style": "wavy"})
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))

	_, err = ParseEdgeOverrides(map[string]string{"shape": "box"})
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want Shape
		ok   bool
	}{
		{"rectangle", Rectangle, true},
		{"RECT", Rectangle, true},
		{"Diamond", Diamond, true},
		{"rounded-rectangle", RoundedRectangle, true},
		{"rounded", RoundedRectangle, true},
		{"blob", Rectangle, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseShape(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}

	assert.Equal(t, Rectangle, ShapeOrDefault("blob"))
	assert.Len(t, Shapes(), 9)
	assert.Equal(t, "rect", Rectangle.Wire())
	assert.Equal(t, "rounded_rectangle", RoundedRectangle.String())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("lr")
	assert.True(t, ok)
	assert.Equal(t, LeftRight, d)

	d, ok = ParseDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, TopDown, d)
}

func TestLineText(t *testing.T) {
	var l Line
	require.NoError(t, l.UnmarshalText([]byte("BOLD")))
	assert.Equal(t, Bold, l)
	assert.Error(t, l.UnmarshalText([]byte("wavy")))

	b, err := Dashed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "dashed", string(b))
}
