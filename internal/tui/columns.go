package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(primaryColor)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(fgColor)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(fgColor).
				Bold(true).
				Padding(0, 1)

	priorityHigh   = lipgloss.NewStyle().Foreground(errorColor)
	priorityMedium = lipgloss.NewStyle().Foreground(warningColor)
	priorityLow    = lipgloss.NewStyle().Foreground(successColor)
)

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusTodo:
		return "To Do"
	case models.StatusInProgress:
		return "In Progress"
	case models.StatusCompleted:
		return "Completed"
	}
	return string(s)
}

func formatPriority(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return priorityHigh.Render("●")
	case models.PriorityMedium:
		return priorityMedium.Render("●")
	case models.PriorityLow:
		return priorityLow.Render("●")
	}
	return " "
}

func (a *App) renderBoard(height int) string {
	if !a.loaded {
		return "\n  Loading tasks...\n"
	}

	width := max(20, a.width/len(models.Statuses)-2)
	cards := max(1, height-3)

	rendered := make([]string, 0, len(models.Statuses))
	for c, st := range models.Statuses {
		active := c == a.col
		body := renderColumn(a.cols.Column(st), active, a.row, width-4, cards)

		title := columnTitleStyle.Render(fmt.Sprintf("%s (%d)", statusLabel(st), len(a.cols.Column(st))))
		style := columnStyle
		if active {
			style = activeColumnStyle
		}
		rendered = append(rendered, style.Width(width).Height(height-2).Render(title+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(tasks []models.Task, active bool, selected, width, limit int) string {
	if len(tasks) == 0 {
		return helpStyle.Render("empty")
	}

	start := 0
	if active && selected >= limit {
		start = selected - limit + 1
	}
	end := min(len(tasks), start+limit)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := tasks[i]
		name := truncate(t.Name, width-2)
		if active && i == selected {
			lines = append(lines, selectedCardStyle.Render("▶ "+name))
			continue
		}
		lines = append(lines, cardStyle.Render(formatPriority(t.Priority)+" "+name))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
