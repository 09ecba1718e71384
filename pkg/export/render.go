package export

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

const (
	// DefaultBinary is the Graphviz layout program invoked by ExecRenderer.
	DefaultBinary = "dot"

	// DefaultTimeout bounds a single render.
	DefaultTimeout = 30 * time.Second
)

// Renderer turns DOT source into a rendered document.
type Renderer interface {
	// Name identifies the renderer in cache keys and logs.
	Name() string
	// Supports reports whether the renderer can produce f.
	Supports(f Format) bool
	// Render lays out dot and returns the encoded output.
	Render(ctx context.Context, dot []byte, f Format) ([]byte, error)
}

// Render produces f from dot using r. The DOT format is returned unchanged
// without consulting r, so a nil renderer is fine for source output.
func Render(ctx context.Context, r Renderer, dot []byte, f Format) ([]byte, error) {
	if f == DOT {
		return bytes.Clone(dot), nil
	}
	if r == nil {
		return nil, derrors.New(derrors.ErrCodeToolNotFound, "no renderer configured for %s", f)
	}
	if !r.Supports(f) {
		return nil, derrors.New(derrors.ErrCodeUnsupportedFormat, "renderer %s cannot produce %s", r.Name(), f)
	}
	return r.Render(ctx, dot, f)
}

// =============================================================================
// Graphviz binary
// =============================================================================

// ExecRenderer runs the Graphviz binary, feeding DOT on stdin and reading the
// rendered output from stdout. The zero value uses DefaultBinary and
// DefaultTimeout.
type ExecRenderer struct {
	Binary  string
	Timeout time.Duration
	Logger  *log.Logger
}

func (r *ExecRenderer) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

func (r *ExecRenderer) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

// Name implements Renderer.
func (r *ExecRenderer) Name() string { return "exec" }

// Supports implements Renderer.
func (r *ExecRenderer) Supports(f Format) bool {
	switch f {
	case PNG, SVG, PDF, JPG:
		return true
	}
	return false
}

// Render implements Renderer.
func (r *ExecRenderer) Render(ctx context.Context, dot []byte, f Format) ([]byte, error) {
	if !r.Supports(f) {
		return nil, derrors.New(derrors.ErrCodeUnsupportedFormat, "graphviz cannot render %s", f)
	}
	path, err := LookPath(r.binary())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-T"+string(f))
	cmd.Stdin = bytes.NewReader(dot)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	cmd.WaitDelay = time.Second

	start := time.Now()
	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, derrors.Wrap(derrors.ErrCodeExportTimeout, ctxErr,
			"%s -T%s did not finish within %s", r.binary(), f, r.timeout())
	}
	if err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = "no diagnostic output"
		}
		return nil, derrors.Wrap(derrors.ErrCodeExportRejected, err, "%s -T%s: %s", r.binary(), f, msg)
	}
	if r.Logger != nil {
		r.Logger.Debug("graphviz render", "format", f, "bytes", out.Len(), "duration", time.Since(start))
	}
	return out.Bytes(), nil
}

// LookPath resolves a Graphviz binary on PATH, failing with
// EXPORT_TOOL_NOT_FOUND and install instructions when it is missing.
func LookPath(binary string) (string, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot) {
			return "", derrors.Wrap(derrors.ErrCodeToolNotFound, err,
				"graphviz %q not found. Install with:\n  macOS:  brew install graphviz\n  Linux:  apt install graphviz", binary)
		}
		return "", derrors.Wrap(derrors.ErrCodeToolNotFound, err, "resolve %q", binary)
	}
	return path, nil
}

// =============================================================================
// Embedded Graphviz
// =============================================================================

// EmbeddedRenderer renders in-process with the WebAssembly build of Graphviz,
// so no system install is needed. It cannot produce PDF.
type EmbeddedRenderer struct {
	Timeout time.Duration
	Logger  *log.Logger
}

// Name implements Renderer.
func (r *EmbeddedRenderer) Name() string { return "embedded" }

// Supports implements Renderer.
func (r *EmbeddedRenderer) Supports(f Format) bool {
	_, ok := embeddedFormats[f]
	return ok
}

var embeddedFormats = map[Format]graphviz.Format{
	PNG: graphviz.PNG,
	SVG: graphviz.SVG,
	JPG: graphviz.JPG,
}

type renderResult struct {
	data []byte
	err  error
}

// Render implements Renderer. The layout runs on its own goroutine so a
// deadline or cancellation returns promptly.
func (r *EmbeddedRenderer) Render(ctx context.Context, dot []byte, f Format) ([]byte, error) {
	gf, ok := embeddedFormats[f]
	if !ok {
		return nil, derrors.New(derrors.ErrCodeUnsupportedFormat, "embedded graphviz cannot render %s", f)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan renderResult, 1)
	go func() {
		data, err := renderEmbedded(ctx, dot, gf)
		done <- renderResult{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, derrors.Wrap(derrors.ErrCodeExportTimeout, ctx.Err(),
			"embedded graphviz did not finish within %s", timeout)
	case res := <-done:
		if res.err == nil && r.Logger != nil {
			r.Logger.Debug("embedded render", "format", f, "bytes", len(res.data))
		}
		return res.data, res.err
	}
}

func renderEmbedded(ctx context.Context, dot []byte, f graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeToolNotFound, err, "init embedded graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeExportRejected, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, f, &buf); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeExportRejected, err, "render %s", f)
	}
	return buf.Bytes(), nil
}

// Auto returns an ExecRenderer when the Graphviz binary is installed and an
// EmbeddedRenderer otherwise.
func Auto(logger *log.Logger) Renderer {
	if _, err := LookPath(DefaultBinary); err == nil {
		return &ExecRenderer{Logger: logger}
	}
	if logger != nil {
		logger.Debug("graphviz binary not found, using embedded renderer")
	}
	return &EmbeddedRenderer{Logger: logger}
}

// ByName picks a renderer by its Name: "exec", "embedded" or "auto".
func ByName(name string, logger *log.Logger) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return Auto(logger), nil
	case "exec":
		return &ExecRenderer{Logger: logger}, nil
	case "embedded":
		return &EmbeddedRenderer{Logger: logger}, nil
	}
	return nil, derrors.New(derrors.ErrCodeInvalidConfig, "unknown renderer %q (want auto, exec or embedded)", name)
}
