package httpmw

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if seen == "" {
		t.Fatal("Expected request id in context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("Expected response header %s, got %s", seen, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if seen != "abc-123" {
		t.Errorf("Expected incoming id to be kept, got %s", seen)
	}
}

func TestWithRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithRequestID, WithRecover(log.New(&buf, "", 0)))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tasks", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("Expected JSON error body, got %q", w.Body.String())
	}
	if body["request_id"] == "" || body["request_id"] != w.Header().Get(RequestIDHeader) {
		t.Errorf("Expected request id in error body, got %q", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic_recovered") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

func TestWithAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}), WithRequestID, WithAccessLog(log.New(&buf, "", 0), "task-api"))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Access log is not JSON: %v (%s)", err, buf.String())
	}
	if entry["status"].(float64) != http.StatusTeapot {
		t.Errorf("Expected status 418, got %v", entry["status"])
	}
	if entry["bytes"].(float64) != 2 {
		t.Errorf("Expected 2 bytes, got %v", entry["bytes"])
	}
	if entry["remote_ip"] != "10.0.0.1" {
		t.Errorf("Expected first forwarded ip, got %v", entry["remote_ip"])
	}
	if entry["request_id"] == "" {
		t.Error("Expected request id in access log")
	}
	if entry["service"] != "task-api" {
		t.Errorf("Expected service task-api, got %v", entry["service"])
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected warn for a 4xx, got %v", entry["level"])
	}
}

// accessLine runs h behind the access log and returns the decoded line.
func accessLine(t *testing.T, h http.Handler, middlewares ...func(http.Handler) http.Handler) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	chain := append([]func(http.Handler) http.Handler{WithRequestID, WithAccessLog(log.New(&buf, "", 0), "task-api")}, middlewares...)
	Chain(h, chain...).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/tasks", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Access log is not JSON: %v (%s)", err, buf.String())
	}
	return entry
}

func TestAnnotateAddsFieldsToAccessLog(t *testing.T) {
	entry := accessLine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), "action", "tasks.replace")
		Annotate(r.Context(), "count", 3)
		Annotate(r.Context(), "status", "ignored")
	}))

	if entry["action"] != "tasks.replace" {
		t.Errorf("Expected action tasks.replace, got %v", entry["action"])
	}
	if entry["count"].(float64) != 3 {
		t.Errorf("Expected count 3, got %v", entry["count"])
	}
	if entry["status"].(float64) != http.StatusOK {
		t.Errorf("Expected annotation not to replace status, got %v", entry["status"])
	}
	if entry["level"] != "info" {
		t.Errorf("Expected info, got %v", entry["level"])
	}
}

func TestAnnotateWithoutAccessLog(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	Annotate(req.Context(), "action", "tasks.list")
}

func TestPanicIsAccessLoggedAsError(t *testing.T) {
	entry := accessLine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), "action", "tasks.replace")
		panic("boom")
	}), WithRecover(log.New(&bytes.Buffer{}, "", 0)))

	if entry["status"].(float64) != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %v", entry["status"])
	}
	if entry["level"] != "error" {
		t.Errorf("Expected error, got %v", entry["level"])
	}
	if entry["panic"] != "boom" || entry["action"] != "tasks.replace" {
		t.Errorf("Expected panic and action annotations, got %v", entry)
	}
}
