package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/web"
)

var webListen string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the web Kanban board",
	RunE:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&webListen, "listen", "", "Listen address (default 127.0.0.1:8000)")
}

func runWeb(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("listen") {
		cfg.Web.Listen = webListen
	}

	c := newClient()
	warnIfUnreachable(c.Health, c.BaseURL())

	server := web.NewServer(board.New(c), cfg.Web.Listen)
	return runUntilSignal(server.Start, server.Shutdown)
}

// warnIfUnreachable logs when the API does not answer its health check.
// The frontends still start and report the failure per request.
func warnIfUnreachable(health func(context.Context) error, addr string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := health(ctx); err != nil {
		log.Printf("Warning: task API at %s is not reachable: %s", addr, board.Message(err))
	}
}
