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

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	envFile  string
	logLevel string
	offline  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "Gaze-to-target attention trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override FOCUSFLOW_LOG_LEVEL")
	root.PersistentFlags().BoolVar(&opts.offline, "offline", false, "skip every backend call")

	root.AddCommand(newPlayCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newProfilesCmd(opts))
	root.AddCommand(newReportsCmd(opts))
	root.AddCommand(newLevelsCmd(opts))
	return root
}
