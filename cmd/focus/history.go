package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/focus/internal/app"
	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/timer"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func newHistoryCmd(opts *app.Options) *cobra.Command {
	var limit int
	var format, mode string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent focus and break sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			var filter timer.Mode
			if mode != "" {
				parsed, err := timer.ParseMode(mode)
				if err != nil {
					return fmt.Errorf("--mode: %w", err)
				}
				filter = parsed
			}
			return withHistory(*opts, func(store *history.Store) error {
				var sessions []history.Session
				var err error
				if filter == "" {
					sessions, err = store.Recent(cmd.Context(), limit)
				} else {
					sessions, err = store.RecentByMode(cmd.Context(), string(filter), limit)
				}
				if err != nil {
					return err
				}
				return writeSessions(cmd.OutOrStdout(), format, sessions)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table|json|yaml")
	cmd.Flags().StringVar(&mode, "mode", "", "only list sessions of this mode: focus|break")
	return cmd
}

func newSummaryCmd(opts *app.Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show today's focus and break totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return withHistory(*opts, func(store *history.Store) error {
				summary, err := store.Summarize(cmd.Context(), history.StartOfDay(time.Now()))
				if err != nil {
					return err
				}
				return writeSummary(cmd.OutOrStdout(), format, summary)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table|json|yaml")
	return cmd
}

// withHistory opens the configured session log for the duration of fn.
func withHistory(opts app.Options, fn func(*history.Store) error) error {
	cfg, err := app.LoadConfig(opts)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func writeSessions(w io.Writer, format string, sessions []history.Session) error {
	if sessions == nil {
		sessions = []history.Session{}
	}
	switch format {
	case formatJSON:
		return writeJSON(w, sessions)
	case formatYAML:
		return writeYAML(w, sessions)
	}

	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "no sessions")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tENDED\tMODE\tOUTCOME\tELAPSED\tPLANNED")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			s.Outcome,
			formatSeconds(s.ElapsedSeconds),
			formatSeconds(s.PlannedSeconds),
		)
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, format string, summary history.Summary) error {
	switch format {
	case formatJSON:
		return writeJSON(w, summary)
	case formatYAML:
		return writeYAML(w, summary)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "focus\t%d sessions\t%d min\n", summary.FocusSessions, summary.FocusMinutes)
	_, _ = fmt.Fprintf(tw, "break\t%d sessions\t%d min\n", summary.BreakSessions, summary.BreakMinutes)
	_, _ = fmt.Fprintf(tw, "completed\t%d\t\n", summary.Completed)
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// formatSeconds renders a duration as 25m, 45s or 1m30s.
func formatSeconds(seconds int) string {
	switch {
	case seconds%60 == 0:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	default:
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	}
}
