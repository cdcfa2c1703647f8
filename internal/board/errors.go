package board

import (
	"errors"
	"sort"
	"strings"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/client"
)

// Sentinel errors for board operations.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidDirection = errors.New("invalid direction")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// Message turns an operation error into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	var se *client.StatusError
	switch {
	case errors.Is(err, client.ErrBackendUnreachable):
		return "Could not connect to the backend server: " + err.Error()
	case errors.Is(err, ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, ErrInvalidDirection):
		return "Invalid move direction"
	case errors.As(err, &ve):
		return "Please correct the errors below."
	case errors.As(err, &se):
		return "Backend error: " + se.Message
	default:
		return err.Error()
	}
}
