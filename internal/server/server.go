// Package server exposes the dotflow pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build version
//	GET  /v1/themes   available themes
//	POST /v1/render   DSL in, DOT or a rendered diagram out
//
// Every response carries an X-Request-ID header. A client-supplied UUID is
// echoed back; otherwise a new one is generated.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dotflow/pkg/buildinfo"
	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/pipeline"
)

const (
	// maxBodyBytes bounds a render request body.
	maxBodyBytes = pipeline.MaxDSLBytes + 64<<10

	// RenderTimeout bounds a single render request.
	RenderTimeout = 45 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves the render API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/themes", s.handleThemes)
		r.With(middleware.AllowContentType("application/json")).Post("/render", s.handleRender)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      RenderTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

type themeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Background  string `json:"background"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes := s.runner.Registry.Themes()
	out := make([]themeInfo, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeInfo{Name: t.Name, Description: t.Description, Background: t.BackgroundOrDefault()})
	}
	writeJSON(w, http.StatusOK, out)
}

// renderRequest is the body of POST /v1/render.
type renderRequest struct {
	Name      string `json:"name"`
	Theme     string `json:"theme"`
	Direction string `json:"direction"`
	DSL       string `json:"dsl"`
	Format    string `json:"format"`
	Refresh   bool   `json:"refresh"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, derrors.New(derrors.ErrCodeValidation, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, r, derrors.Wrap(derrors.ErrCodeValidation, err, "invalid JSON body"))
		return
	}
	if req.Format == "" {
		req.Format = string(export.DOT)
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RenderTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, pipeline.Options{
		Name:      req.Name,
		Theme:     req.Theme,
		Direction: req.Direction,
		DSL:       req.DSL,
		Formats:   []string{string(format)},
		Refresh:   req.Refresh,
		Logger:    s.logger.With("request_id", RequestIDFrom(r.Context())),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("ETag", `"`+res.DOTHash+`"`)
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Node-Count", itoa(res.Stats.NodeCount))
	w.Header().Set("X-Edge-Count", itoa(res.Stats.EdgeCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}
