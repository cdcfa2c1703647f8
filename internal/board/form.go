package board

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// MaxNameLength bounds Task.Name in characters.
const MaxNameLength = 200

// DefaultAssignee is used when a form leaves assignedTo blank.
const DefaultAssignee = "AI"

// Form is the user-editable part of a task. Values are raw strings as they
// arrive from a form post or command line.
type Form struct {
	Name           string
	Description    string
	AIInstructions string
	Priority       string
	AssignedTo     string
	DueDate        string
}

// FormFromTask prefills a form with the editable fields of t.
func FormFromTask(t models.Task) Form {
	return Form{
		Name:           t.Name,
		Description:    t.Description,
		AIInstructions: t.AIInstructions,
		Priority:       string(t.Priority),
		AssignedTo:     t.AssignedTo,
		DueDate:        t.DueDate.String(),
	}
}

// Task validates the form and returns the task fields it describes.
// ID and Status are left for the caller to set.
func (f Form) Task() (models.Task, error) {
	errs := map[string]string{}

	name := strings.TrimSpace(f.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs["name"] = "This field is required."
	case n > MaxNameLength:
		errs["name"] = fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxNameLength, n)
	}

	priority := models.PriorityMedium
	if p := strings.TrimSpace(f.Priority); p != "" {
		parsed, err := models.ParsePriority(p)
		if err != nil {
			errs["priority"] = "Select a valid choice."
		} else {
			priority = parsed
		}
	}

	assignee := strings.TrimSpace(f.AssignedTo)
	if assignee == "" {
		assignee = DefaultAssignee
	}

	due, err := models.ParseDate(f.DueDate)
	if err != nil {
		errs["dueDate"] = "Enter a valid date."
	}

	if len(errs) > 0 {
		return models.Task{}, &ValidationError{Fields: errs}
	}

	return models.Task{
		Name:           name,
		Description:    f.Description,
		AIInstructions: f.AIInstructions,
		Priority:       priority,
		AssignedTo:     assignee,
		DueDate:        due,
	}, nil
}
