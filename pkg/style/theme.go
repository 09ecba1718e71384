package style

import (
	"sort"
	"strings"
	"sync"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// DefaultTheme is the name of the baseline theme.
const DefaultTheme = "default"

// Theme is a named bundle of graph background, node defaults and edge defaults.
// Zero-valued fields in Node and Edge fall through to the baseline.
type Theme struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Background  string    `toml:"background" validate:"max=100"`
	Node        NodeStyle `toml:"node"`
	Edge        EdgeStyle `toml:"edge"`
}

// Baseline returns the black-on-white theme every other theme falls back to.
func Baseline() Theme {
	return Theme{
		Name:        DefaultTheme,
		Description: "Black on white",
		Background:  "white",
		Node:        baselineNode,
		Edge:        baselineEdge,
	}
}

// BackgroundOrDefault returns the theme background, or the baseline's when unset.
func (t Theme) BackgroundOrDefault() string {
	if t.Background == "" {
		return "white"
	}
	return t.Background
}

func builtinThemes() []Theme {
	mono := Baseline()
	mono.Name = "monochrome"
	mono.Description = "Pure black and white"

	return []Theme{
		Baseline(),
		{
			Name:        "dark",
			Description: "Light text on a dark slate background",
			Background:  "#1a202c",
			Node:        NodeStyle{Color: "white", FillColor: "#2d3748", FontColor: "white"},
			Edge:        EdgeStyle{Color: "#cbd5e0", FontColor: "#cbd5e0"},
		},
		{
			Name:        "colorful",
			Description: "Yellow nodes with slate outlines",
			Background:  "#f7fafc",
			Node:        NodeStyle{Color: "#2d3748", FillColor: "#ecc94b", FontColor: "#2d3748"},
			Edge:        EdgeStyle{Color: "#4a5568", FontColor: "#4a5568"},
		},
		mono,
		{
			Name:        "blue",
			Description: "Blue tints",
			Background:  "#f0f9ff",
			Node:        NodeStyle{Color: "#1e40af", FillColor: "#dbeafe", FontColor: "#1e3a8a"},
			Edge:        EdgeStyle{Color: "#3b82f6", FontColor: "#1e40af"},
		},
		{
			Name:        "green",
			Description: "Green tints",
			Background:  "#f0fdf4",
			Node:        NodeStyle{Color: "#166534", FillColor: "#dcfce7", FontColor: "#166534"},
			Edge:        EdgeStyle{Color: "#22c55e", FontColor: "#166534"},
		},
	}
}

// Registry maps theme names to themes. Names are case-insensitive.
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]Theme
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]Theme)}
}

// Builtin returns a fresh registry holding the built-in themes.
// Each call returns an independent copy.
func Builtin() *Registry {
	r := NewRegistry()
	for _, t := range builtinThemes() {
		_ = r.Register(t)
	}
	return r
}

// Register adds or replaces a theme. The name is stored lowercased.
func (r *Registry) Register(t Theme) error {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	if name == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "theme name cannot be empty")
	}
	if err := validateTheme(t); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "theme %q", name)
	}
	t.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.themes[name]; !exists {
		r.order = append(r.order, name)
	}
	r.themes[name] = t
	return nil
}

// Get returns the named theme and whether it exists.
func (r *Registry) Get(name string) (Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Lookup returns the named theme, or the baseline when the name is unknown.
func (r *Registry) Lookup(name string) Theme {
	if t, ok := r.Get(name); ok {
		return t
	}
	return Baseline()
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// SortedNames returns registered names alphabetically.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

// Themes returns every theme in registration order.
func (r *Registry) Themes() []Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Theme, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.themes[name])
	}
	return out
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, t := range r.Themes() {
		c.themes[t.Name] = t
		c.order = append(c.order, t.Name)
	}
	return c
}

// validateTheme checks that the theme resolves cleanly with no overrides.
func validateTheme(t Theme) error {
	if err := derrors.ValidateStyleValue("background", t.Background); err != nil {
		return err
	}
	if _, err := ResolveNode(t, NodeOverrides{}); err != nil {
		return err
	}
	_, err := ResolveEdge(t, EdgeOverrides{})
	return err
}
