package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [task-id] [next|prev]",
	Short: "Move a task to the next or previous column",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var (
	taskStatus string
	taskForm   board.Form
)

// formFlags are the flag names bound to taskForm fields.
var formFlags = []struct {
	name  string
	usage string
	field func(*board.Form) *string
}{
	{"name", "Task name", func(f *board.Form) *string { return &f.Name }},
	{"desc", "Description", func(f *board.Form) *string { return &f.Description }},
	{"ai", "AI instructions", func(f *board.Form) *string { return &f.AIInstructions }},
	{"priority", "Priority: Low, Medium or High", func(f *board.Form) *string { return &f.Priority }},
	{"assign", "Assignee", func(f *board.Form) *string { return &f.AssignedTo }},
	{"due", "Due date YYYY-MM-DD (empty clears)", func(f *board.Form) *string { return &f.DueDate }},
}

func init() {
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskAddCmd, taskEditCmd, taskDeleteCmd, taskMoveCmd)

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (todo, inprogress, completed)")

	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		for _, ff := range formFlags {
			c.Flags().StringVar(ff.field(&taskForm), ff.name, "", ff.usage)
		}
	}
	taskAddCmd.MarkFlagRequired("name")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	var filter models.Status
	if taskStatus != "" {
		s, err := models.ParseStatus(taskStatus)
		if err != nil {
			return err
		}
		filter = s
	}

	tasks, err := newBoard().List(context.Background())
	if err != nil {
		return userError(err)
	}
	if filter != "" {
		tasks = tasks.ByStatus(filter)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}
	printTasks(os.Stdout, tasks)
	return nil
}

func printTasks(out io.Writer, tasks models.Collection) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPRIORITY\tASSIGNED TO\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Name, 40), t.Status, t.Priority, t.AssignedTo, t.DueDate)
	}
	w.Flush()
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	t, err := newBoard().Get(context.Background(), args[0])
	if err != nil {
		return userError(err)
	}

	fmt.Printf("ID:              %s\n", t.ID)
	fmt.Printf("Name:            %s\n", t.Name)
	fmt.Printf("Status:          %s\n", t.Status)
	fmt.Printf("Priority:        %s\n", t.Priority)
	fmt.Printf("Assigned To:     %s\n", t.AssignedTo)
	if !t.DueDate.IsZero() {
		fmt.Printf("Due:             %s\n", t.DueDate)
	}
	if t.Description != "" {
		fmt.Printf("Description:     %s\n", t.Description)
	}
	if t.AIInstructions != "" {
		fmt.Printf("AI Instructions: %s\n", t.AIInstructions)
	}
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	t, err := newBoard().Create(context.Background(), taskForm)
	if err != nil {
		return userError(err)
	}
	fmt.Printf("Created task: %s\n", t.ID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	b := newBoard()

	current, err := b.Get(ctx, args[0])
	if err != nil {
		return userError(err)
	}

	form := mergeForm(board.FormFromTask(current), taskForm, cmd.Flags().Changed)
	if _, err := b.Edit(ctx, args[0], form); err != nil {
		return userError(err)
	}
	fmt.Println("Task updated successfully!")
	return nil
}

// mergeForm copies the fields of overrides whose flag was set onto base.
func mergeForm(base, overrides board.Form, changed func(string) bool) board.Form {
	for _, ff := range formFlags {
		if changed(ff.name) {
			*ff.field(&base) = *ff.field(&overrides)
		}
	}
	return base
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if err := newBoard().Delete(context.Background(), args[0]); err != nil {
		return userError(err)
	}
	fmt.Println("Task deleted successfully!")
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	dir, err := board.ParseDirection(args[1])
	if err != nil {
		return err
	}

	t, err := newBoard().Move(context.Background(), args[0], dir)
	if err != nil {
		return userError(err)
	}
	fmt.Printf("Task %s is now %s\n", t.ID, t.Status)
	return nil
}

// userError keeps field detail for validation failures and maps everything
// else to its user-facing message.
func userError(err error) error {
	var ve *board.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return errors.New(board.Message(err))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
