// Package api provides the task collection REST service.
//
// The service exposes exactly two task operations: GET /tasks returns the
// whole collection and POST /tasks replaces it. It holds no collection state;
// each request goes to the store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/audit"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/httpmw"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/store"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Version is reported by /health.
const Version = "1.0.0"

// maxBodyBytes bounds a POST /tasks body.
const maxBodyBytes = 10 << 20

// Server provides the HTTP API.
type Server struct {
	store       store.Store
	pdr         *audit.PDRWriter
	logger      *log.Logger
	addr        string
	corsOrigins []string
	server      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and PDR entries.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCORSOrigins restricts cross-origin access; the default allows all.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewServer creates a new HTTP server over st.
func NewServer(st store.Store, addr string, opts ...Option) *Server {
	s := &Server{
		store:       st,
		addr:        addr,
		logger:      log.Default(),
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pdr = audit.NewPDRWriter(s.logger)
	return s
}

// Handler returns the router wrapped in CORS and the shared middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.replaceTasks).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", httpmw.RequestIDHeader})
	methods := gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions})
	origins := gorillahandlers.AllowedOrigins(s.corsOrigins)
	cors := gorillahandlers.CORS(headers, methods, origins)

	return httpmw.Chain(r,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(s.logger, "task-api"),
		httpmw.WithRecover(s.logger),
		cors,
	)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Printf("Starting task API on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// --- Task Handlers ---

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	httpmw.Annotate(r.Context(), "action", "tasks.list")
	tasks, err := s.store.ReadAll(r.Context())
	if err != nil {
		s.fail(w, r, "tasks.read", err)
		return
	}
	if tasks == nil {
		tasks = models.Collection{}
	}
	httpmw.Annotate(r.Context(), "count", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// replaceTasks writes the posted collection verbatim. Only the wire shape is
// checked; names, ids and uniqueness are the caller's concern.
func (s *Server) replaceTasks(w http.ResponseWriter, r *http.Request) {
	httpmw.Annotate(r.Context(), "action", "tasks.replace")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "could not read body")
		return
	}

	tasks, err := decodeCollection(body)
	if err != nil {
		httpmw.Annotate(r.Context(), "error", err.Error())
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	httpmw.Annotate(r.Context(), "count", len(tasks))

	if err := s.store.WriteAll(r.Context(), tasks); err != nil {
		s.fail(w, r, "tasks.replace", err)
		return
	}

	s.pdr.Record("tasks.replace", body, "success", map[string]any{
		"count":      len(tasks),
		"request_id": httpmw.RequestIDFromContext(r.Context()),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func decodeCollection(body []byte) (models.Collection, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var tasks models.Collection
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return tasks, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := statusFor(err)
	httpmw.Annotate(r.Context(), "error", err.Error())
	httpmw.LogJSON(s.logger, map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "error",
		"msg":        action + "_failed",
		"request_id": httpmw.RequestIDFromContext(r.Context()),
		"error":      err.Error(),
	})
	if action == "tasks.replace" {
		s.pdr.Record(action, nil, "error", map[string]any{"error": err.Error()})
	}
	writeErr(w, status, err.Error())
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	// store.ErrIO and anything unexpected
	return http.StatusInternalServerError
}

// --- Health ---

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Store   string `json:"store"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpmw.Annotate(r.Context(), "action", "health")
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		OK:      true,
		Store:   "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		resp.OK = false
		resp.Store = err.Error()
		status = http.StatusServiceUnavailable
		httpmw.Annotate(r.Context(), "error", err.Error())
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
