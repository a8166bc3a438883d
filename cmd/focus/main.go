package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/focus/internal/app"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "focus: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "focus",
		Short:         "Focus and break countdown timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.Run(ctx, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/focus/config.toml)")
	root.PersistentFlags().StringVar(&opts.HistoryPath, "history", "", "session history database (overrides config)")

	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "prefs file path (default ~/.config/focus/prefs.toml)")
	root.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file while the TUI runs")
	root.Flags().Float64Var(&opts.FocusMinutes, "focus", 0, "focus interval in minutes (overrides config)")
	root.Flags().Float64Var(&opts.BreakMinutes, "break", 0, "break interval in minutes (overrides config)")

	root.AddCommand(newHistoryCmd(&opts))
	root.AddCommand(newSummaryCmd(&opts))
	return root
}
