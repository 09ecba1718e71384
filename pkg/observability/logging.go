package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. It implements
// all three hook interfaces and is what `dotflow --verbose` installs.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)

func (h LogHooks) OnParseStart(_ context.Context, graph string) {
	h.Logger.Debug("parse start", "graph", graph)
}

func (h LogHooks) OnParseComplete(_ context.Context, graph string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "graph", graph, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("parse done", "graph", graph, "nodes", nodes, "edges", edges, "duration", d)
}

func (h LogHooks) OnRenderStart(_ context.Context, renderer, format string) {
	h.Logger.Debug("render start", "renderer", renderer, "format", format)
}

func (h LogHooks) OnRenderComplete(_ context.Context, renderer, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "renderer", renderer, "format", format, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render done", "renderer", renderer, "format", format, "bytes", size, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
