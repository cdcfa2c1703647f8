package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/api"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/store"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(st, "", api.WithLogger(log.New(io.Discard, "", 0))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestReadAllEmpty(t *testing.T) {
	c := New(newAPI(t).URL, time.Second)

	tasks, err := c.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Expected empty collection, got %#v", tasks)
	}
}

func TestWriteAllThenReadAll(t *testing.T) {
	c := New(newAPI(t).URL+"/", time.Second)
	ctx := context.Background()

	want := models.Collection{
		{ID: "t1", Name: "One", Priority: models.PriorityMedium, AssignedTo: "AI", Status: models.StatusTodo},
		{ID: "t2", Name: "Two", Priority: models.PriorityLow, AssignedTo: "AI", Status: models.StatusInProgress},
	}
	if err := c.WriteAll(ctx, want); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	got, err := c.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 2 || !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch: %+v", got)
	}

	if err := c.Health(ctx); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.ReadAll(context.Background())
	if !errors.Is(err, ErrBackendUnreachable) {
		t.Errorf("Expected ErrBackendUnreachable, got %v", err)
	}
	if err := c.WriteAll(context.Background(), nil); !errors.Is(err, ErrBackendUnreachable) {
		t.Errorf("Expected ErrBackendUnreachable, got %v", err)
	}
}

func TestTimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 50*time.Millisecond)
	_, err := c.ReadAll(context.Background())
	if !errors.Is(err, ErrBackendUnreachable) {
		t.Errorf("Expected timeout to be ErrBackendUnreachable, got %v", err)
	}
}

func TestServerErrorIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "store I/O error: write: disk full"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.WriteAll(context.Background(), models.Collection{})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", se.Code)
	}
	if se.Message != "store I/O error: write: disk full" {
		t.Errorf("Unexpected message %q", se.Message)
	}
	if errors.Is(err, ErrBackendUnreachable) {
		t.Error("A server error is not an unreachable backend")
	}
}

func TestWriteAllSendsArrayForNil(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	if err := New(srv.URL, time.Second).WriteAll(context.Background(), nil); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if got != "[]" {
		t.Errorf("Expected [] body, got %q", got)
	}
}
