package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/parser"
	"github.com/yurifrl/pconv/pkg/projection"
	"github.com/yurifrl/pconv/pkg/service"
	"github.com/yurifrl/pconv/pkg/xlsx"
)

//go:embed templates/*.html
var templates embed.FS

// formField is the multipart field carrying the uploaded document.
const formField = "document"

// Server handles HTTP requests for document conversion
type Server struct {
	config    *config.Config
	logger    *log.Logger
	router    chi.Router
	template  *template.Template
	processor *service.Processor
	limiter   *rate.Limiter
	registry  *prometheus.Registry
	metrics   *metrics
	results   sync.Map
	now       func() time.Time
}

// result is a processed upload kept for downloads.
type result struct {
	filename  string
	created   time.Time
	artifacts *service.Artifacts
}

// New creates a new HTTP server
func New(cfg *config.Config, logger *log.Logger) *Server {
	tmpl := template.Must(template.ParseFS(templates, "templates/*.html"))
	registry := prometheus.NewRegistry()
	s := &Server{
		config:    cfg,
		logger:    logger,
		router:    chi.NewRouter(),
		template:  tmpl,
		processor: service.NewProcessor(cfg, logger),
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst),
		registry:  registry,
		metrics:   newMetrics(registry),
		now:       time.Now,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)

	s.router.Get("/", s.withLogging(s.handleHome))
	s.router.Get("/healthz", s.withLogging(s.handleHealth))
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Post("/api/process", s.withLogging(s.handleProcess))
	s.router.Get("/api/files/{id}/{kind}", s.withLogging(s.handleFiles))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := s.template.ExecuteTemplate(w, "index.html", map[string]any{"Field": formField}); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
		return
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- process handler ----------------

// processResponse is the JSON body returned for a processed upload.
type processResponse struct {
	Status    string                       `json:"status"`
	ID        string                       `json:"id"`
	File      string                       `json:"file"`
	Display   string                       `json:"display"`
	Lines     []string                     `json:"lines"`
	Items     []projection.ItemQuantityRow `json:"items"`
	Detailed  []projection.DetailedRow     `json:"detailed"`
	Warnings  []parser.Warning             `json:"warnings"`
	Ambiguous bool                         `json:"ambiguous"`
	Downloads map[string]string            `json:"downloads"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.metrics.documents.WithLabelValues("throttled").Inc()
		s.respondError(w, r, http.StatusTooManyRequests, "too many requests", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxUploadMB<<20)

	// read file
	file, header, err := r.FormFile(formField)
	if err != nil {
		s.metrics.documents.WithLabelValues("rejected").Inc()
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.metrics.documents.WithLabelValues("rejected").Inc()
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}

	start := s.now()
	out, err := s.processor.Convert(data, header.Filename)
	s.metrics.duration.Observe(s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.documents.WithLabelValues("failed").Inc()
		status := http.StatusBadRequest
		if errors.Is(err, parser.ErrInvalidInputKind) {
			status = http.StatusUnsupportedMediaType
		}
		s.respondError(w, r, status, "failed to process file", err)
		return
	}
	s.metrics.documents.WithLabelValues("success").Inc()
	s.metrics.items.Add(float64(out.Projection.Len()))

	id := uuid.NewString()
	s.store(id, &result{filename: header.Filename, created: s.now(), artifacts: out.Artifacts})
	s.logger.Info("processed upload", "file", header.Filename, "id", id, "items", out.Projection.Len(), "warnings", len(out.Result.Warnings))

	downloads := make(map[string]string, len(downloadKinds))
	for kind := range downloadKinds {
		downloads[kind] = fmt.Sprintf("/api/files/%s/%s", id, kind)
	}

	resp := processResponse{
		Status:    "success",
		ID:        id,
		File:      header.Filename,
		Display:   out.Projection.Display,
		Lines:     out.Projection.Lines,
		Items:     out.Projection.Items,
		Detailed:  out.Projection.Detailed,
		Warnings:  out.Result.Warnings,
		Ambiguous: out.Result.Ambiguous(),
		Downloads: downloads,
	}
	if resp.Warnings == nil {
		resp.Warnings = []parser.Warning{}
	}
	if err := s.writeJSON(w, http.StatusOK, resp); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- file download handler ----------------

type download struct {
	filename    string
	contentType string
	data        func(*service.Artifacts) []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var downloadKinds = map[string]download{
	"items.xlsx":    {xlsx.ItemsFilename, xlsxContentType, func(a *service.Artifacts) []byte { return a.ItemsXLSX }},
	"detailed.xlsx": {xlsx.DetailedFilename, xlsxContentType, func(a *service.Artifacts) []byte { return a.DetailedXLSX }},
	"items.csv":     {"item_numbers_and_quantities.csv", "text/csv", func(a *service.Artifacts) []byte { return a.ItemsCSV }},
	"detailed.csv":  {"detailed_product_list.csv", "text/csv", func(a *service.Artifacts) []byte { return a.DetailedCSV }},
	"summary.txt":   {"summary.txt", "text/plain; charset=utf-8", func(a *service.Artifacts) []byte { return a.Summary }},
}

// handleFiles serves a generated output for a previously processed upload.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid id", err)
		return
	}
	kind, ok := downloadKinds[chi.URLParam(r, "kind")]
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "unknown file kind", nil)
		return
	}

	res, ok := s.load(id)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}

	w.Header().Set("Content-Type", kind.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", kind.filename))
	if _, err := w.Write(kind.data(res.artifacts)); err != nil {
		s.logger.Warn("failed to write file response", "err", err)
	}
}

// --- cache ---

// store caches a result and drops the ones older than the configured TTL.
func (s *Server) store(id string, res *result) {
	s.results.Store(id, res)
	s.results.Range(func(key, value any) bool {
		if s.expired(value.(*result)) {
			s.results.Delete(key)
		}
		return true
	})
}

func (s *Server) load(id string) (*result, bool) {
	value, ok := s.results.Load(id)
	if !ok {
		return nil, false
	}
	res := value.(*result)
	if s.expired(res) {
		s.results.Delete(id)
		return nil, false
	}
	return res, true
}

func (s *Server) expired(res *result) bool {
	ttl := s.config.Server.ResultTTL
	return ttl > 0 && s.now().Sub(res.created) > ttl
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "request_id", middleware.GetReqID(r.Context()))
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
