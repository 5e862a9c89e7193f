package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/history"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var level string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions, personal bests and streaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			h := a.history.History(ctx)

			entries := h.Entries
			if level != "" {
				lvl, err := core.ParseLevel(level)
				if err != nil {
					return err
				}
				entries = a.history.LevelSessions(ctx, lvl, limit)
			} else if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			st := h.Streaks
			_, _ = fmt.Fprintf(out, "Streak: %d day(s), longest %d", st.Current, st.Longest)
			if st.LastPlayedDate != "" {
				_, _ = fmt.Fprintf(out, ", last played %s", st.LastPlayedDate)
			}
			_, _ = fmt.Fprintln(out)

			for _, l := range core.Levels() {
				if pb, ok := h.PersonalBests[l]; ok {
					_, _ = fmt.Fprintf(out, "Best %s: %d%% (%s)\n", l.Name(), pb.Accuracy, formatTime(pb.Timestamp))
				}
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No sessions recorded")
				return nil
			}
			_, _ = fmt.Fprintln(out)
			for _, e := range entries {
				printEntry(cmd, e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "only sessions of this level")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum sessions listed, 0 for all")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the local session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.history.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})
	return cmd
}

func printEntry(cmd *cobra.Command, e history.Entry) {
	tier := analyzer.TierFor(e.TrackingAccuracy)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-18s %3d%%  %-17s %s\n",
		formatTime(e.Timestamp), e.Level.Name(), e.TrackingAccuracy, tier.Label(), analyzer.FormatDuration(e.Duration))
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
