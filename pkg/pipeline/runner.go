package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dotflow/pkg/cache"
	"github.com/matzehuels/dotflow/pkg/dot"
	"github.com/matzehuels/dotflow/pkg/dsl"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/flow"
	"github.com/matzehuels/dotflow/pkg/observability"
	"github.com/matzehuels/dotflow/pkg/style"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests as long as its Cache and Renderer are safe for concurrent use.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Renderer export.Renderer
	Registry *style.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner.
// A nil cache disables caching, a nil keyer uses cache.DefaultKeyer, and a nil
// renderer limits the runner to DOT output.
func NewRunner(c cache.Cache, keyer cache.Keyer, r export.Renderer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Renderer: r,
		Registry: style.Builtin(),
		Logger:   logger,
	}
}

// Execute runs parse → serialize → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(r.Registry); err != nil {
		return nil, err
	}

	// Stage 1: Parse
	parseStart := time.Now()
	g, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result := &Result{Graph: g}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ClusterCount = countClusters(g.Clusters())

	r.Logger.Info("parsed flow",
		"graph", opts.Name,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Serialize
	result.DOT = []byte(dot.String(g))
	result.DOTHash = cache.Hash(result.DOT)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, info, err := r.Render(ctx, result.DOT, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", info.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse builds a graph from opts.DSL.
func (r *Runner) Parse(ctx context.Context, opts Options) (*flow.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(r.Registry); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Name)
	start := time.Now()

	g := flow.New(opts.Name, opts.GraphOptions(r.Registry)...)
	err := dsl.NewParser(dsl.WithLogger(opts.Logger)).ParseString(g, opts.DSL)
	hooks.OnParseComplete(ctx, opts.Name, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Render produces every format in opts from dotText, consulting the cache
// first unless opts.Refresh is set. DOT output is never cached.
func (r *Runner) Render(ctx context.Context, dotText []byte, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	if err := opts.ValidateAndSetDefaults(r.Registry); err != nil {
		return nil, info, err
	}

	hash := cache.Hash(dotText)
	artifacts := make(map[string][]byte, len(opts.formats))
	for _, f := range opts.formats {
		if f == export.DOT {
			artifacts[string(f)] = dotText
			continue
		}
		key := r.Keyer.ArtifactKey(hash, ArtifactKeyOpts(f, r.Renderer))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, artifactKeyType)
				artifacts[string(f)] = data
				info.Hits++
				continue
			} else if err != nil {
				r.Logger.Warn("cache read failed", "format", f, "err", err)
			}
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
		}
		info.Misses++

		data, err := r.renderOne(ctx, dotText, f)
		if err != nil {
			return nil, info, err
		}
		artifacts[string(f)] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", f, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
		}
	}
	info.RenderHit = info.Misses == 0 && info.Hits > 0
	return artifacts, info, nil
}

func (r *Runner) renderOne(ctx context.Context, dotText []byte, f export.Format) ([]byte, error) {
	name := "none"
	if r.Renderer != nil {
		name = r.Renderer.Name()
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, name, string(f))
	start := time.Now()
	data, err := export.Render(ctx, r.Renderer, dotText, f)
	hooks.OnRenderComplete(ctx, name, string(f), len(data), time.Since(start), err)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func countClusters(cs []*flow.Cluster) int {
	n := len(cs)
	for _, c := range cs {
		n += countClusters(c.Clusters())
	}
	return n
}
