package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1)
)

// renderDetail formats every field of a task for the detail viewport.
func renderDetail(t models.Task) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(t.Name) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	field("ID", t.ID)
	field("Status", statusLabel(t.Status))
	field("Priority", formatPriority(t.Priority)+" "+string(t.Priority))
	field("Assigned to", t.AssignedTo)
	field("Due", t.DueDate.String())

	if t.Description != "" {
		b.WriteString(sectionStyle.Render("Description") + "\n")
		b.WriteString(t.Description + "\n")
	}
	if t.AIInstructions != "" {
		b.WriteString(sectionStyle.Render("AI Instructions") + "\n")
		b.WriteString(t.AIInstructions + "\n")
	}

	return b.String()
}
