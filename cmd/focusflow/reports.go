package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportsCmd(opts *globalOptions) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List generated session reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			client, err := a.online()
			if err != nil {
				return err
			}
			userID, err := a.identity.UserID(cmd.Context())
			if err != nil {
				return err
			}
			reports, err := client.ListReports(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				_, _ = fmt.Fprintln(out, "no reports yet")
				return nil
			}
			for _, r := range reports {
				_, _ = fmt.Fprintf(out, "%s  %s  %s\n", formatTime(r.Timestamp), r.SessionID, r.ModelUsed)
				if full {
					_, _ = fmt.Fprintf(out, "\n%s\n\n", r.Report)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print report text")
	return cmd
}
