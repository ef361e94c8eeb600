// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/hierarchy"
	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/parser"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// Config holds the per-request defaults of the server.
type Config struct {
	Analysis       analysis.Options
	Parse          parser.Options
	MaxUploadBytes int64
}

// Server routes upload requests through the loaders and the analysis
// pipeline. Requests share no mutable state.
type Server struct {
	router *chi.Mux
	cfg    Config
}

// New builds a server with its routes and middleware.
func New(cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	s := &Server{router: chi.NewRouter(), cfg: cfg}
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/healthz", s.handleHealth)
	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Post("/api/hierarchy", s.handleHierarchy)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name, raws, ok := s.load(w, r)
	if !ok {
		return
	}
	opt := s.requestOptions(r)
	rep := analysis.Run(name, raws, opt)
	if rep.Rows == 0 {
		writeError(w, http.StatusUnprocessableEntity, analysis.ErrEmptyDataset)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type hierarchyResponse struct {
	Available bool            `json:"available"`
	Root      *hierarchy.Node `json:"root"`
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	_, raws, ok := s.load(w, r)
	if !ok {
		return
	}
	if len(raws) == 0 {
		writeError(w, http.StatusUnprocessableEntity, analysis.ErrEmptyDataset)
		return
	}
	opt := s.requestOptions(r)
	root := hierarchy.Build(raws, opt.Company, locale.Lookup(opt.Language))
	writeJSON(w, http.StatusOK, hierarchyResponse{Available: root.Available(), Root: root})
}

// load reads the request body as the file named by the filename query
// parameter. It writes the error response itself and reports ok=false.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, []*record.Raw, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("filename"))
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing filename query parameter"))
		return "", nil, false
	}
	if !parser.Supported(name) {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Errorf("%w: %s", parser.ErrUnsupported, name))
		return "", nil, false
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooBig.Limit))
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return "", nil, false
	}
	popt := s.cfg.Parse
	if sheet := r.URL.Query().Get("sheet"); sheet != "" {
		popt.SheetName = sheet
	}
	raws, err := parser.LoadBytes(name, data, popt)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}
	return name, raws, true
}

func (s *Server) requestOptions(r *http.Request) analysis.Options {
	opt := s.cfg.Analysis
	q := r.URL.Query()
	if lang := q.Get("lang"); lang != "" {
		opt.Language = lang
	}
	if company := q.Get("company"); company != "" {
		opt.Company = company
	}
	return opt
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
