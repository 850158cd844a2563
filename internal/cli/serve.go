package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/stepmcp/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the step tools over stdio (JSON-RPC, one request per line)",
	Long: `Serve get-next, mark-complete and reset over stdin/stdout using
line-delimited JSON-RPC, the same as the stepmcp binary.

Examples:
  steps serve
  echo '{"jsonrpc":"2.0","id":1,"method":"get_next_step"}' | steps serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := server.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Warn("failed to close cursor store", "error", err)
		}
	}()

	err = srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	logger.Info("server stopped", "metrics", srv.Metrics().Snapshot())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
