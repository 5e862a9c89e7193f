package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/core"
)

func newLevelsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List levels with their targets and your best accuracy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			for _, l := range core.Levels() {
				best := "not played"
				if pb, ok := a.history.PersonalBest(cmd.Context(), l); ok {
					best = fmt.Sprintf("best %d%%", pb.Accuracy)
				}
				_, _ = fmt.Fprintf(out, "%s  %s (%s)\n", l, l.Name(), best)
				for _, t := range analyzer.LevelTargets(l) {
					_, _ = fmt.Fprintf(out, "    %s: %d%s\n", t.Metric, t.Value, t.Unit)
				}
			}
			return nil
		},
	}
}
