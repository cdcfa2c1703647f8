package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/board"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/client"
	"github.com/SAMeh-ZAGhloul/task-mgr/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "taskmgr",
	Short:             "task-mgr - Kanban task manager",
	Long:              `task-mgr keeps a single collection of tasks behind a small HTTP API and offers a web board, a terminal board and shell commands on top of it.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiURL     string
	configPath string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default from config, http://127.0.0.1:3000)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskmgr/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api") {
		c.Client.APIURL = apiURL
	}
	cfg = c
	return nil
}

func newClient() *client.Client {
	return client.New(cfg.Client.APIURL, cfg.Client.Timeout)
}

func newBoard() *board.Board {
	return board.New(newClient())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
