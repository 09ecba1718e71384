// Package pipeline runs the parse → serialize → render flow shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Parse: apply DSL text to a fresh [flow.Graph]
//  2. Serialize: emit deterministic DOT text with pkg/dot
//  3. Render: turn the DOT text into each requested format with pkg/export,
//     reusing cached artifacts keyed by the DOT hash
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, export.Auto(logger), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:    "checkout",
//	    Theme:   "blue",
//	    DSL:     "start -> pay -> done",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Because DOT output is deterministic, the same diagram always maps to the
// same cache key, regardless of whether it came from the CLI or the API.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dotflow/pkg/cache"
	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/flow"
	"github.com/matzehuels/dotflow/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultName is the graph name used when none is given.
	DefaultName = "flow"

	// MaxDSLBytes bounds the DSL text accepted by the pipeline.
	MaxDSLBytes = 1 << 20
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It doubles as the JSON body of the
// render API.
type Options struct {
	Name      string   `json:"name,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	Direction string   `json:"direction,omitempty"`
	DSL       string   `json:"dsl"`
	Formats   []string `json:"formats,omitempty"`

	// MaxLabelLength overrides the per-label rune limit (0 keeps the default).
	MaxLabelLength int  `json:"max_label_length,omitempty"`
	Refresh        bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	formats   []export.Format
	direction style.Direction
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the model built from the DSL.
	Graph *flow.Graph

	// DOT is the serialized graph.
	DOT []byte

	// DOTHash is the content hash of DOT, used in cache keys and ETags.
	DOTHash string

	// Artifacts holds rendered outputs keyed by format token.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ClusterCount int
	ParseTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo reports cache use in the render stage.
type CacheInfo struct {
	RenderHit bool // every artifact came from cache
	Hits      int
	Misses    int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options against reg and fills defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults(reg *style.Registry) error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Name) == "" {
		o.Name = DefaultName
	}
	if len(o.DSL) > MaxDSLBytes {
		return derrors.New(derrors.ErrCodeValidation, "dsl is %d bytes (max %d)", len(o.DSL), MaxDSLBytes)
	}

	if o.Theme == "" {
		o.Theme = style.DefaultTheme
	}
	if reg != nil {
		if _, ok := reg.Get(o.Theme); !ok {
			return derrors.New(derrors.ErrCodeInvalidConfig,
				"unknown theme %q (available: %s)", o.Theme, strings.Join(reg.Names(), ", "))
		}
	}

	o.direction = style.TopDown
	if o.Direction != "" {
		d, ok := style.ParseDirection(o.Direction)
		if !ok {
			return derrors.New(derrors.ErrCodeValidation, "invalid direction %q (want TB, LR, RL or BT)", o.Direction)
		}
		o.direction = d
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{string(export.DOT)}
	}
	o.formats = o.formats[:0]
	seen := make(map[export.Format]bool, len(o.Formats))
	for _, s := range o.Formats {
		f, err := export.ParseFormat(s)
		if err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			o.formats = append(o.formats, f)
		}
	}

	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// ParsedFormats returns the de-duplicated formats after validation.
func (o *Options) ParsedFormats() []export.Format {
	return append([]export.Format(nil), o.formats...)
}

// GraphOptions returns the flow options matching o.
func (o *Options) GraphOptions(reg *style.Registry) []flow.Option {
	opts := []flow.Option{
		flow.WithTheme(o.Theme),
		flow.WithDirection(o.direction),
		flow.WithMaxLabelLength(o.MaxLabelLength),
		flow.WithLogger(o.Logger),
	}
	if reg != nil {
		opts = append(opts, flow.WithRegistry(reg))
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func ArtifactKeyOpts(f export.Format, r export.Renderer) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: string(f)}
	if r != nil {
		opts.Renderer = r.Name()
	}
	return opts
}
