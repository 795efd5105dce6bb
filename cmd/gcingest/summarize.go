package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/gcingest/internal/config"
	"github.com/crimson-sun/gcingest/internal/engine/summary"
	"github.com/crimson-sun/gcingest/internal/output/sqlite"
)

func newSummarizeCmd(cfg *config.Config) *cobra.Command {
	var (
		sessions []string
		from, to string
		pauses   bool
	)
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize stored events by phase and cause",
		Long: `Group the events of one or more stored sessions by GC phase and cause,
in the order each group first occurred. Without --session every session in
the store is summarized; without --from/--to the whole session is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := sqlite.NewDatabase(cfg.Output.SQLitePath)
			if err != nil {
				return err
			}
			defer db.Close()
			repo := sqlite.NewRepository(db)

			if len(sessions) == 0 {
				if sessions, err = repo.Sessions(ctx); err != nil {
					return err
				}
			}
			if len(sessions) == 0 {
				return errors.New("no sessions in " + cfg.Output.SQLitePath)
			}

			sum := summary.New(summary.Config{Window: cfg.SummaryWindow})
			for _, id := range sessions {
				lo, hi, err := sessionRange(cmd, repo, id, from, to)
				if err != nil {
					return err
				}
				load := repo.Events
				if pauses {
					load = repo.PauseEvents
				}
				events, err := load(ctx, id, lo, hi)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(id, sum.Summarize(events)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Output.SQLitePath, "sqlite-path", cfg.Output.SQLitePath, "event store")
	f.StringSliceVar(&sessions, "session", nil, "session IDs to summarize (default all)")
	f.StringVar(&from, "from", "", "range start, RFC 3339 (default first event)")
	f.StringVar(&to, "to", "", "range end, RFC 3339 (default last event)")
	f.BoolVar(&pauses, "pauses-only", false, "read timing columns only; freed sizes are not reported")
	f.DurationVar(&cfg.SummaryWindow, "window", cfg.SummaryWindow, "split groups after this much time (0 = whole range)")
	return cmd
}

func sessionRange(cmd *cobra.Command, repo *sqlite.Repository, id, from, to string) (time.Time, time.Time, error) {
	lo, hi, err := repo.Bounds(cmd.Context(), id)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from != "" {
		if lo, err = time.Parse(time.RFC3339Nano, from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if hi, err = time.Parse(time.RFC3339Nano, to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
	}
	return lo, hi, nil
}
