package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing results to out.
func newRootCmd(out io.Writer) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "qa",
		Short: "Answer questions about a document",
		Long: `qa answers a list of questions about a PDF or JSON document.

It can run the retrieval pipeline in-process using the same environment
configuration as the API server, or talk to a running server with --server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newAnswerCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func requireServer(server string) error {
	if server == "" {
		return fmt.Errorf("--server is required")
	}
	return nil
}
