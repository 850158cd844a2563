package cli

import (
	"errors"
	"fmt"

	"github.com/raphaelgruber/stepmcp/internal/steps"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the current step",
	Long: `Print the current step without advancing.

Prints nothing and exits 0 once every step is done, so the output can be
fed to a shell directly.

Examples:
  steps next
  eval "$(steps next)" && steps done`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var doneCmd = &cobra.Command{
	Use:   "done",
	Short: "Mark the current step complete",
	Long: `Advance the cursor past the current step.

Running done after the last step is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runDone,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start the runbook over from the first step",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func runNext(cmd *cobra.Command, args []string) error {
	step, ok, err := seq.Next(cmd.Context())
	if err != nil {
		return stepsError(err)
	}
	if !ok {
		logger.Debug("sequence exhausted")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), step)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	if err := seq.Complete(cmd.Context()); err != nil {
		return stepsError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := seq.Reset(cmd.Context()); err != nil {
		return stepsError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

// stepsError adds the file path to a step loading failure.
func stepsError(err error) error {
	if errors.Is(err, steps.ErrStepsUnavailable) {
		return fmt.Errorf("%s: %w", cfg.StepsFile, err)
	}
	return err
}
