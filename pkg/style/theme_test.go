package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

func TestBuiltin(t *testing.T) {
	reg := Builtin()
	assert.Equal(t, []string{"default", "dark", "colorful", "monochrome", "blue", "green"}, reg.Names())

	for _, name := range reg.Names() {
		t.Run(name, func(t *testing.T) {
			th, ok := reg.Get(name)
			require.True(t, ok)
			assert.NotEmpty(t, th.Background)
			_, err := ResolveNode(th, NodeOverrides{})
			assert.NoError(t, err)
		})
	}
}

func TestBuiltinIndependent(t *testing.T) {
	a := Builtin()
	require.NoError(t, a.Register(Theme{Name: "Ocean", Background: "#e0f2fe"}))

	_, ok := a.Get("ocean")
	assert.True(t, ok, "names are case-insensitive")
	_, ok = Builtin().Get("ocean")
	assert.False(t, ok, "registering on one registry does not leak into another")
}

func TestRegistryLookup(t *testing.T) {
	reg := Builtin()
	assert.Equal(t, "#1a202c", reg.Lookup("DARK").Background)
	assert.Equal(t, Baseline(), reg.Lookup("nope"))
}

func TestRegisterInvalid(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Theme{})
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig))

	err = reg.Register(Theme{Name: "bad", Node: NodeStyle{Color: "a\nb"}})
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig))
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
	assert.Empty(t, reg.Names())
}

func TestRegistryReplaceKeepsOrder(t *testing.T) {
	reg := Builtin()
	require.NoError(t, reg.Register(Theme{Name: "dark", Background: "black"}))
	assert.Equal(t, "dark", reg.Names()[1])
	assert.Equal(t, "black", reg.Lookup("dark").Background)

	clone := reg.Clone()
	require.NoError(t, clone.Register(Theme{Name: "extra"}))
	assert.Len(t, reg.Names(), 6)
	assert.Len(t, clone.Names(), 7)
}

func TestLoadThemes(t *testing.T) {
	src := `
[[theme]]
name = "ocean"
description = "Sea blues"
background = "#e0f2fe"

[theme.node]
fill_color = "#bae6fd"
font_size = 14

[theme.edge]
color = "#0369a1"
line = "dashed"
`
	themes, err := LoadThemes(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, themes, 1)

	th := themes[0]
	assert.Equal(t, "ocean", th.Name)
	assert.Equal(t, "#bae6fd", th.Node.FillColor)
	assert.Equal(t, 14, th.Node.FontSize)
	assert.Equal(t, Dashed, th.Edge.Line)

	s, err := ResolveNode(th, NodeOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "black", s.Color)
}

func TestLoadThemesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "[[theme]]\nname = \"x\"\nbackgroud = \"red\"\n"},
		{"bad line", "[[theme]]\nname = \"x\"\n[theme.edge]\nline = \"wavy\"\n"},
		{"syntax", "[[theme]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadThemes(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig))
		})
	}
}

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[theme]]\nname = \"sand\"\nbackground = \"#fef3c7\"\n"), 0o644))

	reg := Builtin()
	require.NoError(t, reg.LoadThemeFile(path))
	assert.Equal(t, "#fef3c7", reg.Lookup("sand").Background)

	err := reg.LoadThemeFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidConfig))
}
