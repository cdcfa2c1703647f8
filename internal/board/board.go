// Package board implements the Kanban operations on top of the task API.
//
// Every mutation reads the whole collection, edits it locally and writes the
// whole collection back. There is no version check between the read and the
// write, so two boards mutating concurrently can overwrite each other and the
// last write wins.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// Remote is the whole-collection interface of the task API.
type Remote interface {
	ReadAll(ctx context.Context) (models.Collection, error)
	WriteAll(ctx context.Context, tasks models.Collection) error
}

// Columns groups a collection by status, preserving collection order.
type Columns struct {
	Todo       []models.Task
	InProgress []models.Task
	Completed  []models.Task
}

// Column returns the tasks for one status.
func (c Columns) Column(s models.Status) []models.Task {
	switch s {
	case models.StatusTodo:
		return c.Todo
	case models.StatusInProgress:
		return c.InProgress
	case models.StatusCompleted:
		return c.Completed
	}
	return nil
}

// Len is the total number of tasks on the board.
func (c Columns) Len() int {
	return len(c.Todo) + len(c.InProgress) + len(c.Completed)
}

// Group splits tasks into the three board columns.
func Group(tasks models.Collection) Columns {
	return Columns{
		Todo:       tasks.ByStatus(models.StatusTodo),
		InProgress: tasks.ByStatus(models.StatusInProgress),
		Completed:  tasks.ByStatus(models.StatusCompleted),
	}
}

// Board performs task operations against a Remote.
type Board struct {
	remote Remote
	now    func() time.Time
}

// New creates a board backed by remote.
func New(remote Remote) *Board {
	return &Board{remote: remote, now: time.Now}
}

// SetClock replaces the clock used for new task ids.
func (b *Board) SetClock(now func() time.Time) {
	b.now = now
}

// List returns the current collection.
func (b *Board) List(ctx context.Context) (models.Collection, error) {
	tasks, err := b.remote.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return tasks, nil
}

// Columns returns the current collection grouped by status.
func (b *Board) Columns(ctx context.Context) (Columns, error) {
	tasks, err := b.List(ctx)
	if err != nil {
		return Columns{}, err
	}
	return Group(tasks), nil
}

// Get returns one task by id.
func (b *Board) Get(ctx context.Context, id string) (models.Task, error) {
	tasks, err := b.List(ctx)
	if err != nil {
		return models.Task{}, err
	}
	t, ok := tasks.Find(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return t, nil
}

// Create validates form and appends a new todo task.
func (b *Board) Create(ctx context.Context, form Form) (models.Task, error) {
	task, err := form.Task()
	if err != nil {
		return models.Task{}, err
	}

	tasks, err := b.List(ctx)
	if err != nil {
		return models.Task{}, err
	}

	task.ID = NewID(b.now(), tasks)
	task.Status = models.StatusTodo

	if err := b.save(ctx, append(tasks, task)); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Edit replaces the editable fields of task id. ID and Status are kept.
func (b *Board) Edit(ctx context.Context, id string, form Form) (models.Task, error) {
	updated, err := form.Task()
	if err != nil {
		return models.Task{}, err
	}

	tasks, err := b.List(ctx)
	if err != nil {
		return models.Task{}, err
	}

	i := tasks.IndexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	updated.ID = tasks[i].ID
	updated.Status = tasks[i].Status
	updated.Extra = tasks[i].Extra
	tasks[i] = updated

	if err := b.save(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes task id.
func (b *Board) Delete(ctx context.Context, id string) error {
	tasks, err := b.List(ctx)
	if err != nil {
		return err
	}

	i := tasks.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	kept := make(models.Collection, 0, len(tasks)-1)
	kept = append(kept, tasks[:i]...)
	kept = append(kept, tasks[i+1:]...)

	return b.save(ctx, kept)
}

// Move shifts task id one column in dir. A move past either end of the
// board leaves the status unchanged but still writes the collection.
func (b *Board) Move(ctx context.Context, id string, dir Direction) (models.Task, error) {
	if _, err := ParseDirection(string(dir)); err != nil {
		return models.Task{}, err
	}

	tasks, err := b.List(ctx)
	if err != nil {
		return models.Task{}, err
	}

	i := tasks.IndexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	tasks[i].Status = Transition(tasks[i].Status, dir)

	if err := b.save(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}

func (b *Board) save(ctx context.Context, tasks models.Collection) error {
	if err := b.remote.WriteAll(ctx, tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// NewID builds "task-<unix ms>-<YYYYMMDD>" from now. When the id is already
// taken in existing, the millisecond part is advanced until it is free.
func NewID(now time.Time, existing models.Collection) string {
	day := now.Format("20060102")
	for ms := now.UnixMilli(); ; ms++ {
		id := fmt.Sprintf("task-%d-%s", ms, day)
		if existing.IndexOf(id) < 0 {
			return id
		}
	}
}
