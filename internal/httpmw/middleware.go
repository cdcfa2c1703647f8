// Package httpmw holds the request id, panic and access log middleware of
// the task API. Handlers attach the action they served and the size of the
// collection they touched to the access line with Annotate.
package httpmw

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	annotationsKey
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// accessKeys are written by WithAccessLog itself and win over annotations.
var accessKeys = map[string]bool{
	"ts": true, "level": true, "msg": true, "service": true, "request_id": true,
	"method": true, "path": true, "status": true, "bytes": true,
	"duration_ms": true, "remote_ip": true,
}

// Chain wraps h so that middlewares[0] runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRequestID keeps an incoming X-Request-Id or assigns a new one.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type annotations struct {
	mu     sync.Mutex
	fields map[string]any
}

// Annotate adds key to the access log line of the request behind ctx.
// Outside WithAccessLog it does nothing.
func Annotate(ctx context.Context, key string, value any) {
	a, _ := ctx.Value(annotationsKey).(*annotations)
	if a == nil || accessKeys[key] {
		return
	}
	a.mu.Lock()
	a.fields[key] = value
	a.mu.Unlock()
}

// WithRecover turns a handler panic into a 500 JSON error carrying the
// request id.
func WithRecover(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				rid := RequestIDFromContext(r.Context())
				Annotate(r.Context(), "panic", fmt.Sprint(rec))
				LogJSON(logger, map[string]any{
					"ts":         stamp(),
					"level":      "error",
					"msg":        "panic_recovered",
					"request_id": rid,
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":      "internal server error",
					"request_id": rid,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WithAccessLog writes one JSON line per request, tagged with service and
// carrying whatever the handler passed to Annotate. 4xx lines are warn and
// 5xx lines are error.
func WithAccessLog(logger *log.Logger, service string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			notes := &annotations{fields: map[string]any{}}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), annotationsKey, notes)))

			line := map[string]any{
				"ts":          stamp(),
				"level":       levelFor(sw.status),
				"msg":         "http_request",
				"service":     service,
				"request_id":  RequestIDFromContext(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"bytes":       sw.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_ip":   clientIP(r),
			}
			notes.mu.Lock()
			for k, v := range notes.fields {
				line[k] = v
			}
			notes.mu.Unlock()
			LogJSON(logger, line)
		})
	}
}

func levelFor(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	}
	return "info"
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-Ip.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// LogJSON writes payload as a single JSON line.
func LogJSON(logger *log.Logger, payload map[string]any) {
	if logger == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}
