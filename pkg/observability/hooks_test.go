package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "flow")
	p.OnParseComplete(ctx, "flow", 3, 2, time.Second, nil)
	p.OnRenderStart(ctx, "exec", "svg")
	p.OnRenderComplete(ctx, "exec", "svg", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/render")
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
	assert.IsType(t, NoopHTTPHooks{}, HTTP())

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	assert.Same(t, customPipeline, Pipeline())

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	assert.Same(t, customCache, Cache())

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	assert.Same(t, customHTTP, HTTP())

	Reset()
	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	assert.Same(t, custom, Pipeline())
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	h := LogHooks{Logger: logger}
	ctx := context.Background()

	h.OnParseComplete(ctx, "flow", 3, 2, time.Millisecond, nil)
	h.OnRenderComplete(ctx, "exec", "png", 0, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "artifact")
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "parse done")
	assert.Contains(t, out, "render failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "cache hit")
	assert.Contains(t, out, "/healthz")
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
