package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dotflow/pkg/cache"
	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/observability"
	"github.com/matzehuels/dotflow/pkg/pipeline"
)

type stubRenderer struct {
	err error
}

func (s *stubRenderer) Name() string                  { return "stub" }
func (s *stubRenderer) Supports(f export.Format) bool { return f == export.SVG || f == export.PNG }
func (s *stubRenderer) Render(_ context.Context, dot []byte, f export.Format) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<svg>" + string(f) + "</svg>"), nil
}

func newTestServer(t *testing.T, r export.Renderer) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, r, nil), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postRender(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/render", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var h healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)

	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "a request ID is generated")
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, nil)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp2.Header.Get(RequestIDHeader))
}

func TestThemes(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/v1/themes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var themes []themeInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&themes))
	require.NotEmpty(t, themes)
	assert.Equal(t, "default", themes[0].Name)

	names := make([]string, len(themes))
	for i, th := range themes {
		names[i] = th.Name
	}
	assert.Contains(t, names, "dark")
}

func TestRenderDOT(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := postRender(t, srv, `{"name":"checkout","dsl":"start -> pay -> done","direction":"LR"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "3", resp.Header.Get("X-Node-Count"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "digraph checkout {"))
	assert.Contains(t, string(body), `rankdir="LR";`)
}

func TestRenderSVGCached(t *testing.T) {
	srv := newTestServer(t, &stubRenderer{})
	body := `{"dsl":"a -> b","format":"svg"}`

	first := postRender(t, srv, body)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "image/svg+xml", first.Header.Get("Content-Type"))
	assert.Equal(t, "miss", first.Header.Get("X-Cache"))

	second := postRender(t, srv, body)
	assert.Equal(t, "hit", second.Header.Get("X-Cache"))
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		renderer export.Renderer
		body     string
		status   int
		code     derrors.Code
	}{
		{"bad json", nil, `{"dsl":`, http.StatusBadRequest, derrors.ErrCodeValidation},
		{"unknown field", nil, `{"dsl":"a","colour":"red"}`, http.StatusBadRequest, derrors.ErrCodeValidation},
		{"bad format", nil, `{"dsl":"a","format":"gif"}`, http.StatusBadRequest, derrors.ErrCodeUnsupportedFormat},
		{"unknown theme", nil, `{"dsl":"a","theme":"neon"}`, http.StatusBadRequest, derrors.ErrCodeInvalidConfig},
		{"unsupported by renderer", &stubRenderer{}, `{"dsl":"a","format":"pdf"}`, http.StatusBadRequest, derrors.ErrCodeUnsupportedFormat},
		{"no renderer", nil, `{"dsl":"a","format":"png"}`, http.StatusServiceUnavailable, derrors.ErrCodeToolNotFound},
		{"rejected", &stubRenderer{err: derrors.New(derrors.ErrCodeExportRejected, "syntax")}, `{"dsl":"a","format":"png"}`, http.StatusBadGateway, derrors.ErrCodeExportRejected},
		{"timeout", &stubRenderer{err: derrors.New(derrors.ErrCodeExportTimeout, "slow")}, `{"dsl":"a","format":"svg"}`, http.StatusGatewayTimeout, derrors.ErrCodeExportTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.renderer)
			resp := postRender(t, srv, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.RequestID)
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := postRender(t, srv, `{"dsl":"`+strings.Repeat("a", maxBodyBytes)+`"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, derrors.ErrCodeValidation, e.Code)
	assert.Contains(t, e.Message, "exceeds")
}

func TestRenderParseErrorHasLineContext(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := postRender(t, srv, `{"dsl":"a -> b\nA ->"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, derrors.ErrCodeParse, e.Code)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, "A ->", e.Text)
}

func TestRenderRejectsWrongContentType(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/v1/render", "text/plain", strings.NewReader("a -> b"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	postRender(t, srv, `{"dsl":"???"}`)

	assert.Eventually(t, func() bool {
		hooks.mu.Lock()
		defer hooks.mu.Unlock()
		return len(hooks.statuses) == 2
	}, time.Second, 10*time.Millisecond)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
