// Package web serves the server-rendered Kanban frontend.
package web

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the web frontend.
type Server struct {
	board  *board.Board
	router *gin.Engine
	addr   string
	server *http.Server
	now    func() time.Time
}

// NewServer creates a frontend that renders b on addr.
func NewServer(b *board.Board, addr string) *Server {
	router := gin.Default()

	s := &Server{
		board:  b,
		router: router,
		addr:   addr,
		now:    time.Now,
	}

	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
	))

	router.GET("/", s.handleIndex)
	router.GET("/create", s.handleCreateForm)
	router.POST("/create", s.handleCreate)

	task := router.Group("/task/:id")
	{
		task.GET("/edit", s.handleEditForm)
		task.POST("/edit", s.handleEdit)
		task.POST("/delete", s.handleDelete)
		task.POST("/move/:direction", s.handleMove)
	}

	return s
}

// SetClock replaces the clock that decides which tasks are overdue.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Web frontend listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

var templateFuncs = template.FuncMap{
	"statusLabel": statusLabel,
	"canPrev": func(s models.Status) bool {
		return board.Transition(s, board.DirectionPrev) != s
	},
	"canNext": func(s models.Status) bool {
		return board.Transition(s, board.DirectionNext) != s
	},
	"overdue": overdue,
}

// overdue reports whether an unfinished task was due before today.
func overdue(t models.Task, today models.Date) bool {
	if t.Status == models.StatusCompleted || t.DueDate.IsZero() {
		return false
	}
	return t.DueDate.Time.Before(today.Time)
}

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
