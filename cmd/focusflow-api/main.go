// focusflow-api is the reference backend: session upload, profiles and report generation
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile, addr, logLevel string

	cmd := &cobra.Command{
		Use:           "focusflow-api",
		Short:         "FocusFlow session backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), serveOptions{envFile: envFile, addr: addr, logLevel: logLevel})
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file")
	cmd.Flags().StringVar(&addr, "addr", "", "override FOCUSFLOW_API_ADDR")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override FOCUSFLOW_LOG_LEVEL")
	return cmd
}
