// Package audit writes Process Decision Records for collection writes.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// Entry is a single Process Decision Record.
type Entry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	InputsHash string         `json:"inputs_hash"`
	Outcome    string         `json:"outcome"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// PDRWriter writes one JSON line per state-mutating action.
type PDRWriter struct {
	logger *log.Logger
}

// NewPDRWriter creates a writer that logs to logger, or the default logger if nil.
func NewPDRWriter(logger *log.Logger) *PDRWriter {
	if logger == nil {
		logger = log.Default()
	}
	return &PDRWriter{logger: logger}
}

// Record writes a PDR entry and returns it.
func (w *PDRWriter) Record(action string, inputs interface{}, outcome string, details map[string]any) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		Action:     action,
		InputsHash: HashInputs(inputs),
		Outcome:    outcome,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	b, err := json.Marshal(map[string]any{"pdr": e})
	if err != nil {
		w.logger.Printf(`{"level":"error","msg":"pdr_marshal_failed","error":%q}`, err.Error())
		return e
	}
	w.logger.Print(string(b))
	return e
}

// HashInputs creates a SHA256 hash of the inputs for reproducibility.
// Raw JSON bytes are hashed as-is.
func HashInputs(inputs interface{}) string {
	var data []byte
	switch v := inputs.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(inputs)
		if err != nil {
			return "hash_error"
		}
		data = b
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
