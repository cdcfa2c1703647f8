// Package tui provides the interactive terminal Kanban board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// App is the main TUI application model.
type App struct {
	board    *board.Board
	cols     board.Columns
	loaded   bool
	col      int
	row      int
	follow   string // task id to select after the next load
	cmdbar   *CmdBarModel
	viewport viewport.Model
	detail   bool
	width    int
	height   int
	message  string
	isErr    bool
	loading  bool
}

type boardLoadedMsg struct {
	cols board.Columns
}

type resultMsg struct {
	message string
	taskID  string
}

type errMsg struct {
	err error
}

// New creates a TUI bound to b.
func New(b *board.Board) *App {
	return &App{
		board:    b,
		cmdbar:   NewCmdBarModel(),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
		loading:  true,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.fetchBoard()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.cmdbar.Focused() {
			return a, a.updateCmdBar(msg)
		}
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.cmdbar.SetWidth(msg.Width - 4)
		a.viewport.Width = msg.Width
		a.viewport.Height = max(5, msg.Height-8)

	case boardLoadedMsg:
		a.loading = false
		a.loaded = true
		a.cols = msg.cols
		a.selectFollowed()
		a.clampSelection()
		a.refreshDetail()

	case resultMsg:
		a.message = msg.message
		a.isErr = false
		a.follow = msg.taskID
		return a, a.fetchBoard()

	case errMsg:
		a.loading = false
		a.isErr = true
		var ve *board.ValidationError
		if errors.As(msg.err, &ve) {
			a.message = "Error: " + ve.Error()
		} else {
			a.message = "Error: " + board.Message(msg.err)
		}

	default:
		if a.cmdbar.Focused() {
			return a, a.cmdbar.Update(msg)
		}
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "esc":
		a.detail = false

	case "left", "h":
		if a.col > 0 {
			a.col--
			a.clampSelection()
			a.refreshDetail()
		}

	case "right", "l":
		if a.col < len(models.Statuses)-1 {
			a.col++
			a.clampSelection()
			a.refreshDetail()
		}

	case "up", "k":
		if a.detail {
			a.viewport.LineUp(1)
		} else if a.row > 0 {
			a.row--
		}

	case "down", "j":
		if a.detail {
			a.viewport.LineDown(1)
		} else if a.row < len(a.column())-1 {
			a.row++
		}

	case "enter":
		if a.selected() != nil {
			a.detail = !a.detail
			a.refreshDetail()
		}

	case "n":
		return a.move(board.DirectionNext)

	case "p":
		return a.move(board.DirectionPrev)

	case "x":
		task := a.selected()
		if task == nil {
			return nil
		}
		id := task.ID
		return func() tea.Msg {
			if err := a.board.Delete(context.Background(), id); err != nil {
				return errMsg{err}
			}
			return resultMsg{message: "Task deleted successfully!"}
		}

	case "r":
		a.loading = true
		return a.fetchBoard()

	case ":":
		return a.cmdbar.Focus()
	}
	return nil
}

func (a *App) updateCmdBar(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		a.cmdbar.Blur()
		return nil
	case "enter":
		input := strings.TrimSpace(a.cmdbar.Submit())
		if input == "" {
			return nil
		}
		return Execute(a.board, input, a.selected())
	}
	return a.cmdbar.Update(msg)
}

func (a *App) move(dir board.Direction) tea.Cmd {
	task := a.selected()
	if task == nil {
		return nil
	}
	id := task.ID
	return func() tea.Msg {
		moved, err := a.board.Move(context.Background(), id, dir)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{
			message: fmt.Sprintf("Moved to %s", statusLabel(moved.Status)),
			taskID:  moved.ID,
		}
	}
}

func (a *App) fetchBoard() tea.Cmd {
	return func() tea.Msg {
		cols, err := a.board.Columns(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return boardLoadedMsg{cols}
	}
}

func (a *App) column() []models.Task {
	return a.cols.Column(models.Statuses[a.col])
}

func (a *App) selected() *models.Task {
	tasks := a.column()
	if a.row < 0 || a.row >= len(tasks) {
		return nil
	}
	return &tasks[a.row]
}

func (a *App) clampSelection() {
	if n := len(a.column()); a.row >= n {
		a.row = max(0, n-1)
	}
}

// selectFollowed moves the cursor onto the task a mutation just touched.
func (a *App) selectFollowed() {
	if a.follow == "" {
		return
	}
	defer func() { a.follow = "" }()
	for c, st := range models.Statuses {
		for r, t := range a.cols.Column(st) {
			if t.ID == a.follow {
				a.col, a.row = c, r
				return
			}
		}
	}
}

func (a *App) refreshDetail() {
	if !a.detail {
		return
	}
	task := a.selected()
	if task == nil {
		a.detail = false
		return
	}
	a.viewport.SetContent(renderDetail(*task))
	a.viewport.GotoTop()
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("task-mgr")
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("[%d tasks]", a.cols.Len()))
	if a.loading {
		header += "  " + helpStyle.Render("loading...")
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", a.width) + "\n")

	contentHeight := max(5, a.height-7)
	if a.detail {
		b.WriteString(a.viewport.View())
	} else {
		b.WriteString(a.renderBoard(contentHeight))
	}

	// Message bar
	b.WriteString("\n")
	if a.message != "" {
		style := lipgloss.NewStyle().Foreground(successColor)
		if a.isErr {
			style = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString(style.Render(a.message))
	}
	b.WriteString("\n")

	b.WriteString(a.cmdbar.View())
	b.WriteString("\n")

	status := " ←→:column | ↑↓:task | n/p:move | x:delete | Enter:details | r:refresh | ::command | q:quit"
	if a.detail {
		status = " ↑↓:scroll | Esc:back | n/p:move | x:delete"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}
