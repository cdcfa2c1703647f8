// Package models defines the core domain types for the task manager.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"
)

// Status represents the Kanban column a task sits in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// ParseStatus returns the Status for an exact wire literal.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// UnmarshalJSON rejects anything outside the three known literals. An empty
// string leaves the status unset.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the valid priorities, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority returns the Priority for an exact wire literal.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// UnmarshalJSON rejects anything outside Low, Medium and High. An empty
// string leaves the priority unset.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = ""
		return nil
	}
	v, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// DateLayout is the wire format of a due date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day. The zero value means "no date".
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the YYYY-MM-DD form, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// MarshalJSON writes "YYYY-MM-DD", or null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null and "" as the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Task is the sole entity of the board.
type Task struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	AIInstructions string   `json:"aiInstructions"`
	Priority       Priority `json:"priority,omitempty"`
	AssignedTo     string   `json:"assignedTo"`
	DueDate        Date     `json:"dueDate,omitzero"`
	Status         Status   `json:"status,omitempty"`

	// Extra holds members this model does not know; they are written back
	// unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// taskFields are the lowercased JSON members decoded into Task's own fields.
// encoding/json matches them case-insensitively, and so does isTaskField.
var taskFields = map[string]bool{
	"id": true, "name": true, "description": true, "aiinstructions": true,
	"priority": true, "assignedto": true, "duedate": true, "status": true,
}

func isTaskField(k string) bool {
	return taskFields[strings.ToLower(k)]
}

type taskJSON Task

// MarshalJSON writes the known fields followed by Extra in key order.
func (t Task) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(taskJSON(t))
	if err != nil || len(t.Extra) == 0 {
		return data, err
	}

	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		if !isTaskField(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value := t.Extra[k]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the known fields and keeps every other member in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	var known taskJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for k := range members {
		if isTaskField(k) {
			delete(members, k)
		}
	}
	known.Extra = nil
	if len(members) > 0 {
		known.Extra = members
	}

	*t = Task(known)
	return nil
}

// Collection is the complete ordered set of tasks, persisted as one unit.
type Collection []Task

// IndexOf returns the position of the task with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with the given id.
func (c Collection) Find(id string) (Task, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c[i], true
	}
	return Task{}, false
}

// Clone returns a copy that can be mutated without touching c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	for i := range out {
		if out[i].Extra != nil {
			out[i].Extra = maps.Clone(out[i].Extra)
		}
	}
	return out
}

// ByStatus returns the tasks with the given status, preserving order.
func (c Collection) ByStatus(status Status) []Task {
	out := []Task{}
	for _, t := range c {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
