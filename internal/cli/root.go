// Package cli provides the command-line interface for stepping through a
// runbook by hand.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raphaelgruber/stepmcp/internal/config"
	"github.com/raphaelgruber/stepmcp/internal/cursor"
	"github.com/raphaelgruber/stepmcp/internal/sequencer"
	"github.com/raphaelgruber/stepmcp/internal/server"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = server.Version

	// Global flags
	verbose       bool
	stepsFile     string
	cursorFile    string
	cursorBackend string
	cursorDB      string
	runbook       string

	// Global config, logger and sequencer
	cfg         config.Config
	logger      *slog.Logger
	seq         *sequencer.Sequencer
	cursorStore *cursor.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "steps",
	Short: "Walk a linear runbook one step at a time",
	Long: `Steps walks the commands listed in a steps.yaml file one at a time,
remembering progress between invocations.

The same cursor is shared with the stepmcp server, so a runbook can be
advanced by an agent over MCP and inspected or corrected from the shell.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if err := config.LoadDotEnvFromCwd(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg = config.Load()
		applyFlags(cmd)

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// serve wires its own server and cursor store
		if cmd.Name() == "serve" {
			return nil
		}

		var err error
		seq, cursorStore, err = server.OpenSequencer(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		return nil
	},
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.StepsFile = stepsFile
	}
	if flags.Changed("cursor") {
		cfg.CursorFile = cursorFile
	}
	if flags.Changed("backend") {
		cfg.CursorBackend = cursorBackend
	}
	if flags.Changed("db") {
		cfg.CursorDB = cursorDB
	}
	if flags.Changed("runbook") {
		cfg.Runbook = runbook
	}
}

// Execute runs the root command and closes the cursor store, even when the
// command fails.
func Execute() error {
	defer closeStore()
	return rootCmd.Execute()
}

func closeStore() {
	if cursorStore == nil {
		return
	}
	if err := cursorStore.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close cursor store: %v\n", err)
	}
	cursorStore = nil
	seq = nil
}

// SetOutput redirects command output (for testing).
func SetOutput(w io.Writer) {
	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
}

// SetInput redirects command input (for testing).
func SetInput(r io.Reader) {
	rootCmd.SetIn(r)
}

// SetArgs sets the command line arguments (for testing).
func SetArgs(args []string) {
	rootCmd.SetArgs(args)
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&stepsFile, "steps", "f", "steps.yaml", "step definition file")
	pf.StringVar(&cursorFile, "cursor", ".step_index", "cursor file (file backend)")
	pf.StringVar(&cursorBackend, "backend", cursor.KindFile, "cursor backend: file or sqlite")
	pf.StringVar(&cursorDB, "db", ".stepmcp.db", "cursor database (sqlite backend)")
	pf.StringVar(&runbook, "runbook", "default", "runbook name (sqlite backend)")

	// Add subcommands
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
}
