package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaskJSONFieldNames(t *testing.T) {
	task := Task{
		ID:             "task-1",
		Name:           "Write report",
		Description:    "desc",
		AIInstructions: "be brief",
		Priority:       PriorityHigh,
		AssignedTo:     "AI",
		DueDate:        NewDate(2025, time.March, 9),
		Status:         StatusInProgress,
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"id":"task-1","name":"Write report","description":"desc","aiInstructions":"be brief","priority":"High","assignedTo":"AI","dueDate":"2025-03-09","status":"inprogress"}`
	if string(data) != want {
		t.Errorf("Unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestTaskJSONOmitsEmptyDueDate(t *testing.T) {
	data, err := json.Marshal(Task{ID: "t1", Status: StatusTodo, Priority: PriorityMedium})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "dueDate") {
		t.Errorf("Expected dueDate to be omitted, got %s", data)
	}
}

func TestDueDateAcceptsNullAndEmpty(t *testing.T) {
	for _, in := range []string{
		`{"id":"t1","status":"todo","priority":"Low","dueDate":null}`,
		`{"id":"t1","status":"todo","priority":"Low","dueDate":""}`,
		`{"id":"t1","status":"todo","priority":"Low"}`,
	} {
		var task Task
		if err := json.Unmarshal([]byte(in), &task); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", in, err)
		}
		if !task.DueDate.IsZero() {
			t.Errorf("Expected zero due date for %s, got %v", in, task.DueDate)
		}
	}
}

func TestUnknownLiteralsRejected(t *testing.T) {
	cases := []string{
		`{"id":"t1","status":"done","priority":"Low"}`,
		`{"id":"t1","status":"todo","priority":"urgent"}`,
		`{"id":"t1","status":"todo","priority":"low"}`,
		`{"id":"t1","status":"todo","priority":"Low","dueDate":"09/03/2025"}`,
	}
	for _, in := range cases {
		var task Task
		if err := json.Unmarshal([]byte(in), &task); err == nil {
			t.Errorf("Expected error for %s", in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2024-12-31" {
		t.Errorf("Expected 2024-12-31, got %s", d)
	}

	d, err = ParseDate("  ")
	if err != nil || !d.IsZero() {
		t.Errorf("Expected zero date for blank input, got %v, %v", d, err)
	}

	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("Expected error for month 13")
	}
}

func TestCollectionHelpers(t *testing.T) {
	c := Collection{
		{ID: "a", Status: StatusTodo},
		{ID: "b", Status: StatusCompleted},
		{ID: "c", Status: StatusTodo},
	}

	if c.IndexOf("b") != 1 {
		t.Errorf("Expected index 1, got %d", c.IndexOf("b"))
	}
	if c.IndexOf("missing") != -1 {
		t.Error("Expected -1 for missing id")
	}
	if _, ok := c.Find("missing"); ok {
		t.Error("Find should report missing id")
	}

	todo := c.ByStatus(StatusTodo)
	if len(todo) != 2 || todo[0].ID != "a" || todo[1].ID != "c" {
		t.Errorf("Unexpected todo column: %+v", todo)
	}
	if got := c.ByStatus(StatusInProgress); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}

	clone := c.Clone()
	clone[0].Status = StatusCompleted
	if c[0].Status != StatusTodo {
		t.Error("Clone shares backing array with the source")
	}
}

func TestEmptyPriorityAndStatusAreUnset(t *testing.T) {
	for _, in := range []string{
		`{"id":"t1","status":"todo"}`,
		`{"id":"t1","status":"todo","priority":""}`,
	} {
		var task Task
		if err := json.Unmarshal([]byte(in), &task); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", in, err)
		}
		if task.Priority != "" {
			t.Errorf("Expected unset priority for %s, got %q", in, task.Priority)
		}

		data, err := json.Marshal(task)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if strings.Contains(string(data), "priority") {
			t.Errorf("Expected priority to be omitted, got %s", data)
		}

		var again Task
		if err := json.Unmarshal(data, &again); err != nil {
			t.Errorf("Expected re-encoded task to decode, got %v", err)
		}
	}

	var task Task
	if err := json.Unmarshal([]byte(`{"id":"t1","status":""}`), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.Status != "" {
		t.Errorf("Expected unset status, got %q", task.Status)
	}
}

func TestUnknownMembersRoundTrip(t *testing.T) {
	in := `{"id":"t1","status":"todo","tags":["a"],"estimate": 3}`

	var task Task
	if err := json.Unmarshal([]byte(in), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(task.Extra) != 2 {
		t.Fatalf("Expected 2 extra members, got %v", task.Extra)
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":"t1","name":"","description":"","aiInstructions":"","assignedTo":"","status":"todo","estimate":3,"tags":["a"]}`
	if string(data) != want {
		t.Errorf("Unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestKnownMembersNotKeptAsExtra(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":"t1","name":"n","status":"todo"}`), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.Extra != nil {
		t.Errorf("Expected nil Extra, got %v", task.Extra)
	}

	task.Extra = map[string]json.RawMessage{"name": json.RawMessage(`"shadow"`)}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "shadow") {
		t.Errorf("Expected known member to win over Extra, got %s", data)
	}
}

func TestCloneCopiesExtra(t *testing.T) {
	c := Collection{{ID: "a", Extra: map[string]json.RawMessage{"tags": json.RawMessage(`["a"]`)}}}

	clone := c.Clone()
	clone[0].Extra["tags"] = json.RawMessage(`[]`)
	if string(c[0].Extra["tags"]) != `["a"]` {
		t.Error("Clone shares Extra with the source")
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2024, time.June, 10, 23, 30, 0, 0, time.UTC))
	if d.String() != "2024-06-10" {
		t.Errorf("Expected 2024-06-10, got %s", d)
	}
}

func TestKnownMembersMatchCaseInsensitively(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"ID":"t1","Status":"todo","AssignedTo":"sam"}`), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.ID != "t1" || task.AssignedTo != "sam" {
		t.Errorf("Unexpected task: %+v", task)
	}
	if task.Extra != nil {
		t.Errorf("Expected no extra members, got %v", task.Extra)
	}
}
