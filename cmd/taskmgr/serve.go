package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/api"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/store"
)

var (
	serveListen  string
	serveBackend string
	servePath    string
	serveDSN     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API service",
	Long:  `Starts the HTTP API that owns the task collection. GET /tasks returns it, POST /tasks replaces it.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default 0.0.0.0:3000)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "Store backend: file, sqlite or postgres")
	serveCmd.Flags().StringVar(&servePath, "path", "", "JSON document or SQLite database path")
	serveCmd.Flags().StringVar(&serveDSN, "dsn", "", "Postgres connection string")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.API.Listen = serveListen
	}
	if flags.Changed("backend") {
		cfg.Store.Backend = serveBackend
	}
	if flags.Changed("path") {
		cfg.Store.Path = servePath
	}
	if flags.Changed("dsn") {
		cfg.Store.DSN = serveDSN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Println("Starting task API...")

	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	log.Printf("Using %s store", cfg.Store.Backend)

	server := api.NewServer(s, cfg.API.Listen, api.WithCORSOrigins(cfg.API.CORSOrigins))

	err = runUntilSignal(server.Start, server.Shutdown)

	log.Println("Closing store...")
	if cerr := s.Close(); cerr != nil {
		log.Printf("Store close error: %v", cerr)
	}
	return err
}

// runUntilSignal runs start until it fails or SIGINT/SIGTERM arrives, then
// calls shutdown with a bounded deadline.
func runUntilSignal(start func() error, shutdown func(context.Context) error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	serverErr := make(chan error, 1)
	go func() {
		err := start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server error: %v", err)
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
