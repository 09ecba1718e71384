package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

func TestResolveNode(t *testing.T) {
	reg := Builtin()

	tests := []struct {
		name  string
		theme string
		o     NodeOverrides
		check func(t *testing.T, s NodeStyle)
	}{
		{
			name:  "baseline",
			theme: "default",
			check: func(t *testing.T, s NodeStyle) {
				assert.Equal(t, baselineNode, s)
			},
		},
		{
			name:  "theme fills in colors",
			theme: "dark",
			check: func(t *testing.T, s NodeStyle) {
				assert.Equal(t, "white", s.Color)
				assert.Equal(t, "#2d3748", s.FillColor)
				assert.Equal(t, "white", s.FontColor)
				assert.Equal(t, 12, s.FontSize, "unset theme field falls to baseline")
				assert.Equal(t, "Arial", s.FontName)
			},
		},
		{
			name:  "override beats theme",
			theme: "colorful",
			o:     NodeOverrides{FillColor: Ptr("#ffcccc"), FontSize: Ptr(14)},
			check: func(t *testing.T, s NodeStyle) {
				assert.Equal(t, "#ffcccc", s.FillColor)
				assert.Equal(t, 14, s.FontSize)
				assert.Equal(t, "#2d3748", s.Color)
			},
		},
		{
			name:  "unknown theme is baseline",
			theme: "ocean",
			check: func(t *testing.T, s NodeStyle) {
				assert.Equal(t, baselineNode, s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ResolveNode(reg.Lookup(tt.theme), tt.o)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestResolveNodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		o    NodeOverrides
	}{
		{"quote in color", NodeOverrides{Color: Ptr(`red"`)}},
		{"font too large", NodeOverrides{FontSize: Ptr(1000)}},
		{"negative width", NodeOverrides{Width: Ptr(-1.0)}},
		{"zero height", NodeOverrides{Height: Ptr(0.0)}},
		{"long font name", NodeOverrides{FontName: Ptr(strings.Repeat("a", 101))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveNode(Baseline(), tt.o)
			require.Error(t, err)
			assert.True(t, derrors.Is(err, derrors.ErrCodeValidation), "got %v", err)
		})
	}
}

func TestResolveEdge(t *testing.T) {
	s, err := ResolveEdge(Builtin().Lookup("blue"), EdgeOverrides{Line: Ptr(Dashed)})
	require.NoError(t, err)

	assert.Equal(t, Dashed, s.Line)
	assert.Equal(t, "#3b82f6", s.Color)
	assert.Equal(t, "#1e40af", s.FontColor)
	assert.Equal(t, 10, s.FontSize)
	assert.Equal(t, "normal", s.ArrowHead)
	assert.Empty(t, s.ArrowTail)

	_, err = ResolveEdge(Baseline(), EdgeOverrides{FontSize: Ptr(0)})
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
}

func TestOverridesMerge(t *testing.T) {
	base := NodeOverrides{Color: Ptr("red"), FillColor: Ptr("white")}
	merged := base.Merge(NodeOverrides{FillColor: Ptr("#ffcccc")})

	assert.Equal(t, "red", *merged.Color)
	assert.Equal(t, "#ffcccc", *merged.FillColor)
	assert.Equal(t, "white", *base.FillColor, "receiver is not modified")
	assert.True(t, NodeOverrides{}.IsZero())
	assert.False(t, merged.IsZero())

	e := EdgeOverrides{Color: Ptr("red")}.Merge(EdgeOverrides{Line: Ptr(Bold)})
	assert.Equal(t, Bold, *e.Line)
	assert.Equal(t, "red", *e.Color)
}

func TestResolutionIsPure(t *testing.T) {
	theme := Builtin().Lookup("green")
	a, err := ResolveNode(theme, NodeOverrides{})
	require.NoError(t, err)
	_, err = ResolveNode(theme, NodeOverrides{FillColor: Ptr("red")})
	require.NoError(t, err)
	b, err := ResolveNode(theme, NodeOverrides{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
