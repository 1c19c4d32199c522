package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/internal/metrics"
	"github.com/aretw0/svgflat/internal/presentation/graph"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/resolve"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the part of the Flattener the HTTP API exposes.
type Service interface {
	FlattenTo(ctx context.Context, input, output string) (*domain.Report, error)
	Convert(ctx context.Context, input, output string, opts svgflat.ConvertOptions) (*domain.Report, error)
	Graph(ctx context.Context, input string) (*domain.RefNode, error)
}

// Server serves the svgflat operations over HTTP.
type Server struct {
	Service Service
	locks   *keylock.Manager
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLocks shares a lock manager, e.g. one backed by a distributed locker.
func WithLocks(m *keylock.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.locks = m
		}
	}
}

// WithMetrics records operations and mounts GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{Service: svc, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.locks == nil {
		s.locks = keylock.New(keylock.WithLogger(s.logger))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	if doc, err := GetSwagger(); err != nil {
		s.logger.Error("OpenAPI document unavailable, request validation disabled", "err", err)
	} else if router, err := newRouter(doc); err != nil {
		s.logger.Error("Failed to build OpenAPI router", "err", err)
	} else {
		r.Use(validateRequests(router))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Post("/flatten", s.Flatten)
	r.Post("/convert", s.Convert)
	r.Post("/graph", s.Graph)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Flatten handles the POST /flatten request.
func (s *Server) Flatten(w http.ResponseWriter, r *http.Request) {
	var body FlattenRequest
	if !s.decode(w, r, &body, &body.Input, &body.Output) {
		return
	}

	var report *domain.Report
	err := s.run(r.Context(), "flatten", body.Input, func(ctx context.Context) error {
		var err error
		report, err = s.Service.FlattenTo(ctx, body.Input, body.Output)
		return err
	})
	if err != nil {
		s.fail(w, "Flatten failed", err)
		return
	}
	s.writeJSON(w, newConversionResponse(report))
}

// Convert handles the POST /convert request.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body ConvertRequest
	if !s.decode(w, r, &body, &body.Input, &body.Output) {
		return
	}

	opts := svgflat.ConvertOptions{KeepTemp: body.KeepTemp, TextToPath: body.TextToPath}
	var report *domain.Report
	err := s.run(r.Context(), "convert", body.Input, func(ctx context.Context) error {
		var err error
		report, err = s.Service.Convert(ctx, body.Input, body.Output, opts)
		return err
	})
	if err != nil {
		s.fail(w, "Convert failed", err)
		return
	}
	s.writeJSON(w, newConversionResponse(report))
}

// Graph handles the POST /graph request.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	var body GraphRequest
	if !s.decode(w, r, &body, &body.Input) {
		return
	}

	root, err := s.Service.Graph(r.Context(), body.Input)
	if err != nil {
		s.fail(w, "Graph failed", err)
		return
	}

	if body.Format == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(graph.GenerateMermaid(root)))
		return
	}
	s.writeJSON(w, root)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, map[string]string{
		"app":         "svgflat-http",
		"version":     strings.TrimSpace(svgflat.Version),
		"api_version": apiVersion,
	})
}

// run serializes operations on the same input file and records metrics.
func (s *Server) run(ctx context.Context, kind, input string, fn func(context.Context) error) error {
	key := input
	if abs, err := filepath.Abs(input); err == nil {
		key = abs
	}

	start := time.Now()
	err := s.locks.WithLock(ctx, key, fn)
	if s.metrics != nil {
		s.metrics.ObserveConversion(kind, err, time.Since(start))
	}
	return err
}

// decode reads the JSON body into v, then validates the listed path
// fields in place.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, paths ...*string) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	for _, p := range paths {
		if *p == "" {
			continue
		}
		clean, err := resolve.SanitizePath(*p)
		if err != nil {
			s.logger.Warn("Path rejected", "path", r.URL.Path, "err", err)
			writeError(w, http.StatusBadRequest, err)
			return false
		}
		*p = clean
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, "err", err)
	} else {
		s.logger.Warn(msg, "err", err)
	}
	writeError(w, status, err)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConversionFailed), errors.Is(err, domain.ErrExportFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}
