package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal Kanban board",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	c := newClient()
	warnIfUnreachable(c.Health, c.BaseURL())

	app := tui.New(board.New(c))
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
