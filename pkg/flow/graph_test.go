package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/style"
)

var none = style.NodeOverrides{}

func mustNode(t *testing.T, g *Graph, id string) *Node {
	t.Helper()
	n, err := g.CreateNode(id, "", style.Rectangle, none)
	require.NoError(t, err)
	return n
}

func TestNewDefaults(t *testing.T) {
	g := New("flow")

	assert.Equal(t, "flow", g.Name())
	assert.Equal(t, style.TopDown, g.Direction())
	assert.Equal(t, derrors.DefaultMaxLabelLength, g.MaxLabelLength())
	assert.Equal(t, Attrs{{"bgcolor", "white"}, {"rankdir", "TB"}}, g.Attrs())
	assert.Nil(t, g.Scope())
	assert.Zero(t, g.NodeCount())
}

func TestNewOptions(t *testing.T) {
	g := New("flow", WithTheme("dark"), WithDirection(style.LeftRight), WithMaxLabelLength(5))

	bg, _ := g.Attrs().Get("bgcolor")
	assert.Equal(t, "#1a202c", bg)
	dir, _ := g.Attrs().Get("rankdir")
	assert.Equal(t, "LR", dir)

	_, err := g.CreateNode("A", "too long", style.Rectangle, none)
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
}

func TestNewUnknownThemeFallsBack(t *testing.T) {
	g := New("flow", WithTheme("ocean"))
	assert.Equal(t, style.Baseline(), g.Theme())
}

func TestNewCustomRegistry(t *testing.T) {
	reg := style.Builtin()
	require.NoError(t, reg.Register(style.Theme{Name: "ocean", Background: "#e0f2fe"}))

	g := New("flow", WithRegistry(reg), WithTheme("ocean"))
	bg, _ := g.Attrs().Get("bgcolor")
	assert.Equal(t, "#e0f2fe", bg)
}

func TestCreateNodeValidIDs(t *testing.T) {
	ids := []string{"A", "_x", "step_2", "Load_Data", "a1b2"}
	g := New("flow")
	for _, id := range ids {
		n, err := g.CreateNode(id, "", style.Rectangle, none)
		require.NoError(t, err, id)
		assert.Equal(t, id, n.Label, "label defaults to ID")

		got, ok := g.Node(id)
		require.True(t, ok)
		assert.Same(t, n, got)
	}
}

func TestCreateNodeInvalidIDs(t *testing.T) {
	ids := []string{"", "1A", "a-b", "Valid?", "a.b", "é"}
	g := New("flow")
	for _, id := range ids {
		_, err := g.CreateNode(id, "", style.Rectangle, none)
		require.Error(t, err, id)
		assert.True(t, derrors.Is(err, derrors.ErrCodeValidation), id)
	}
	assert.Zero(t, g.NodeCount())
}

func TestCreateNodeNormalizesWhitespace(t *testing.T) {
	g := New("flow")
	n, err := g.CreateNode("Load Data", "Load data", style.Rectangle, none)
	require.NoError(t, err)
	assert.Equal(t, "LoadData", n.ID)
	assert.True(t, g.HasNode("LoadData"))
	assert.True(t, g.HasNode("Load Data"))
}

func TestCreateNodeOverwriteSameScope(t *testing.T) {
	g := New("flow")
	first := mustNode(t, g, "A")
	mustNode(t, g, "B")

	second, err := g.CreateNode("A", "Renamed", style.Diamond, none)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "Renamed", second.Label)
	assert.Equal(t, style.Diamond, second.Shape)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, "A", g.Nodes()[0].ID, "position is kept")
}

func TestCreateNodeCrossScopeRejected(t *testing.T) {
	g := New("flow")
	mustNode(t, g, "A")

	_, err := g.EnterCluster("inner", "")
	require.NoError(t, err)
	_, err = g.CreateNode("A", "", style.Rectangle, none)
	require.Error(t, err)
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "top level")
	require.NoError(t, g.ExitCluster())

	n, _ := g.Node("A")
	assert.Equal(t, "A", n.Label)
}

func TestCreateNodeInvalidStyleLeavesModel(t *testing.T) {
	g := New("flow")
	_, err := g.CreateNode("A", "", style.Rectangle, style.NodeOverrides{Color: style.Ptr(`red"`)})
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
	assert.False(t, g.HasNode("A"))
}

func TestCreateEdge(t *testing.T) {
	g := New("flow")
	mustNode(t, g, "A")
	mustNode(t, g, "B")

	e, err := g.CreateEdge("A", "B", "go", style.EdgeOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "A", e.From)
	assert.Equal(t, "B", e.To)
	assert.Equal(t, "go", e.Label)
	assert.Equal(t, style.Solid, e.Style.Line)

	_, err = g.CreateEdge("A", "B", "go", style.EdgeOverrides{})
	require.NoError(t, err)
	assert.Len(t, g.Edges(), 2, "duplicates are appended")
}

func TestCreateEdgeMissingEndpoint(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		side string
	}{
		{"missing source", "X", "A", "source"},
		{"missing target", "A", "X", "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("flow")
			mustNode(t, g, "A")
			_, err := g.CreateEdge(tt.from, tt.to, "", style.EdgeOverrides{})
			require.Error(t, err)
			assert.True(t, derrors.Is(err, derrors.ErrCodeNodeNotFound))
			assert.Contains(t, err.Error(), tt.side)
			assert.Zero(t, g.EdgeCount())
		})
	}
}

func TestCreateEdgeAcrossClusters(t *testing.T) {
	g := New("flow")
	require.NoError(t, g.InCluster("a", "", func(g *Graph) error {
		return g.InCluster("deep", "", func(g *Graph) error {
			_, err := g.CreateNode("Inner", "", style.Rectangle, none)
			return err
		})
	}))
	mustNode(t, g, "Outer")

	_, err := g.CreateEdge("Outer", "Inner", "", style.EdgeOverrides{})
	require.NoError(t, err)

	require.NoError(t, g.InCluster("b", "", func(g *Graph) error {
		_, err := g.CreateEdge("Inner", "Nowhere", "", style.EdgeOverrides{})
		assert.True(t, derrors.Is(err, derrors.ErrCodeNodeNotFound))
		return nil
	}))
}

func TestCreateEdgeInvalidLabel(t *testing.T) {
	g := New("flow")
	mustNode(t, g, "A")
	_, err := g.CreateEdge("A", "A", "bad\x00label", style.EdgeOverrides{})
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
	assert.Zero(t, g.EdgeCount())
}

func TestSetGraphAttr(t *testing.T) {
	g := New("flow")
	require.NoError(t, g.SetGraphAttr("splines", "ortho"))
	require.NoError(t, g.SetGraphAttr("bgcolor", "black"))

	assert.Equal(t, Attrs{{"bgcolor", "black"}, {"rankdir", "TB"}, {"splines", "ortho"}}, g.Attrs())

	err := g.SetGraphAttr("bad-key", "x")
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
	err = g.SetGraphAttr("label", `a"b`)
	assert.True(t, derrors.Is(err, derrors.ErrCodeValidation))
}

func TestSetNodeStyle(t *testing.T) {
	g := New("flow", WithTheme("blue"))
	mustNode(t, g, "A")

	require.NoError(t, g.SetNodeStyle("A", style.NodeOverrides{FillColor: style.Ptr("red")}))
	n, _ := g.Node("A")
	assert.Equal(t, "red", n.Style.FillColor)
	assert.Equal(t, "#1e40af", n.Style.Color, "other fields are kept")

	err := g.SetNodeStyle("Z", none)
	assert.True(t, derrors.Is(err, derrors.ErrCodeNodeNotFound))
}

func TestAllEdgesOrder(t *testing.T) {
	g := New("flow")
	mustNode(t, g, "A")
	mustNode(t, g, "B")
	_, err := g.CreateEdge("A", "B", "1", style.EdgeOverrides{})
	require.NoError(t, err)
	require.NoError(t, g.InCluster("c", "", func(g *Graph) error {
		_, err := g.CreateEdge("B", "A", "2", style.EdgeOverrides{})
		return err
	}))
	_, err = g.CreateEdge("B", "B", "3", style.EdgeOverrides{})
	require.NoError(t, err)

	var labels []string
	for _, e := range g.AllEdges() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"1", "2", "3"}, labels)
	assert.Len(t, g.Edges(), 2)
	assert.Equal(t, 3, g.EdgeCount())
}
