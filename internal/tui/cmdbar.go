package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

var (
	cmdBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// CmdBarModel manages the command input bar
type CmdBarModel struct {
	input   textinput.Model
	focused bool
}

// NewCmdBarModel creates a new command bar
func NewCmdBarModel() *CmdBarModel {
	ti := textinput.New()
	ti.Placeholder = "add <name> | rename <name> | priority <Low|Medium|High> | assign <who> | due <YYYY-MM-DD|-> | desc <text>"
	ti.CharLimit = 256
	ti.Width = 76
	return &CmdBarModel{
		input: ti,
	}
}

// Focused reports whether the bar has keyboard focus.
func (m *CmdBarModel) Focused() bool {
	return m.focused
}

// SetWidth resizes the input.
func (m *CmdBarModel) SetWidth(w int) {
	m.input.Width = max(10, w)
}

// Focus focuses the command bar
func (m *CmdBarModel) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur unfocuses the command bar
func (m *CmdBarModel) Blur() {
	m.focused = false
	m.input.Blur()
	m.input.SetValue("")
}

// Submit returns the current input and blurs
func (m *CmdBarModel) Submit() string {
	val := m.input.Value()
	m.Blur()
	return val
}

// Update forwards key input to the text field.
func (m *CmdBarModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the command bar
func (m *CmdBarModel) View() string {
	if m.focused {
		return cmdBarStyle.Render(promptStyle.Render(": ") + m.input.View())
	}
	return cmdBarStyle.Render("Press : to enter a command (add, rename, priority, assign, due, desc)")
}

// Execute runs one command line against b. Commands other than add act on
// the selected task.
func Execute(b *board.Board, input string, selected *models.Task) tea.Cmd {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	if cmd == "add" {
		if arg == "" {
			return result("Usage: add <name>")
		}
		return func() tea.Msg {
			task, err := b.Create(context.Background(), board.Form{Name: arg})
			if err != nil {
				return errMsg{err}
			}
			return resultMsg{message: "Task created successfully!", taskID: task.ID}
		}
	}

	var apply func(*board.Form)
	var usage string
	switch cmd {
	case "rename":
		usage = "Usage: rename <name>"
		apply = func(f *board.Form) { f.Name = arg }
	case "priority":
		usage = "Usage: priority <Low|Medium|High>"
		apply = func(f *board.Form) { f.Priority = arg }
	case "assign":
		usage = "Usage: assign <who>"
		apply = func(f *board.Form) { f.AssignedTo = arg }
	case "due":
		usage = "Usage: due <YYYY-MM-DD|->"
		apply = func(f *board.Form) {
			if arg == "-" {
				f.DueDate = ""
			} else {
				f.DueDate = arg
			}
		}
	case "desc":
		// An empty argument clears the description.
		apply = func(f *board.Form) { f.Description = arg }
	default:
		return result(fmt.Sprintf("Unknown command: %s", cmd))
	}

	if usage != "" && arg == "" {
		return result(usage)
	}
	if selected == nil {
		return result("No task selected")
	}

	task := *selected
	return func() tea.Msg {
		form := board.FormFromTask(task)
		apply(&form)
		updated, err := b.Edit(context.Background(), task.ID, form)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{message: "Task updated successfully!", taskID: updated.ID}
	}
}

func result(message string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{message: message}
	}
}
