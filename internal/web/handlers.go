package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

const (
	msgCreated = "Task created successfully!"
	msgUpdated = "Task updated successfully!"
	msgDeleted = "Task deleted successfully!"
)

type column struct {
	Status models.Status
	Title  string
	Tasks  []models.Task
}

func (s *Server) handleIndex(c *gin.Context) {
	errMsg := c.Query("error")

	cols, err := s.board.Columns(c.Request.Context())
	if err != nil {
		cols = board.Group(nil)
		errMsg = board.Message(err)
	}

	view := make([]column, 0, len(models.Statuses))
	for _, st := range models.Statuses {
		view = append(view, column{Status: st, Title: statusLabel(st), Tasks: cols.Column(st)})
	}

	c.HTML(http.StatusOK, "kanban.html", gin.H{
		"columns": view,
		"today":   models.DateOf(s.now()),
		"notice":  c.Query("notice"),
		"error":   errMsg,
	})
}

func (s *Server) handleCreateForm(c *gin.Context) {
	s.renderForm(c, "Create Task", "/create", board.Form{
		Priority:   string(models.PriorityMedium),
		AssignedTo: board.DefaultAssignee,
	}, nil)
}

func (s *Server) handleCreate(c *gin.Context) {
	form := bindForm(c)

	if _, err := s.board.Create(c.Request.Context(), form); err != nil {
		s.renderForm(c, "Create Task", "/create", form, err)
		return
	}
	redirect(c, "notice", msgCreated)
}

func (s *Server) handleEditForm(c *gin.Context) {
	id := c.Param("id")

	task, err := s.board.Get(c.Request.Context(), id)
	if err != nil {
		redirect(c, "error", board.Message(err))
		return
	}
	s.renderForm(c, "Edit Task", editPath(id), board.FormFromTask(task), nil)
}

func (s *Server) handleEdit(c *gin.Context) {
	id := c.Param("id")
	form := bindForm(c)

	_, err := s.board.Edit(c.Request.Context(), id, form)
	switch {
	case err == nil:
		redirect(c, "notice", msgUpdated)
	case errors.Is(err, board.ErrTaskNotFound):
		redirect(c, "error", board.Message(err))
	default:
		s.renderForm(c, "Edit Task", editPath(id), form, err)
	}
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.board.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirect(c, "error", board.Message(err))
		return
	}
	redirect(c, "notice", msgDeleted)
}

func (s *Server) handleMove(c *gin.Context) {
	dir, err := board.ParseDirection(c.Param("direction"))
	if err == nil {
		_, err = s.board.Move(c.Request.Context(), c.Param("id"), dir)
	}
	if err != nil {
		redirect(c, "error", board.Message(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// renderForm shows the task form. A validation error is rendered as field
// messages; any other error becomes a page-level message.
func (s *Server) renderForm(c *gin.Context, title, action string, form board.Form, err error) {
	data := gin.H{
		"title":      title,
		"action":     action,
		"form":       form,
		"priorities": models.Priorities,
		"fields":     map[string]string{},
	}

	var ve *board.ValidationError
	if errors.As(err, &ve) {
		data["fields"] = ve.Fields
	}
	if err != nil {
		data["error"] = board.Message(err)
	}

	c.HTML(http.StatusOK, "task_form.html", data)
}

func bindForm(c *gin.Context) board.Form {
	return board.Form{
		Name:           c.PostForm("name"),
		Description:    c.PostForm("description"),
		AIInstructions: c.PostForm("aiInstructions"),
		Priority:       c.PostForm("priority"),
		AssignedTo:     c.PostForm("assignedTo"),
		DueDate:        c.PostForm("dueDate"),
	}
}

func redirect(c *gin.Context, key, msg string) {
	c.Redirect(http.StatusSeeOther, "/?"+url.Values{key: {msg}}.Encode())
}

func editPath(id string) string {
	return "/task/" + url.PathEscape(id) + "/edit"
}
