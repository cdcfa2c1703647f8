package board

import (
	"fmt"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// Direction moves a task one column along the board.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// ParseDirection accepts exactly "next" or "prev".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionNext, DirectionPrev:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Transition applies the linear todo <-> inprogress <-> completed table.
// Advancing past completed or retreating before todo leaves status unchanged.
func Transition(status models.Status, dir Direction) models.Status {
	switch dir {
	case DirectionNext:
		switch status {
		case models.StatusTodo:
			return models.StatusInProgress
		case models.StatusInProgress:
			return models.StatusCompleted
		}
	case DirectionPrev:
		switch status {
		case models.StatusCompleted:
			return models.StatusInProgress
		case models.StatusInProgress:
			return models.StatusTodo
		}
	}
	return status
}
