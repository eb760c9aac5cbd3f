package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/app"
	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(client poller.Source) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}

	var (
		interval   float64
		unreadOnly bool
	)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll notifications and print changes",
		Long: `Poll the notification feed and print new notifications and
unread badge changes as they happen.

USAGE:
    casewatch watch [OPTIONS]

OPTIONS:
    --interval <secs>  Poll interval (default: poll_interval config, 10)
    --unread           Only print unread notifications
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			every := config.GetDuration("poll_interval", time.Second, poller.DefaultInterval)
			if c.Flags().Changed("interval") {
				if interval <= 0 {
					return fmt.Errorf("watch: --interval must be positive")
				}
				every = time.Duration(interval * float64(time.Second))
			}
			return app.NewWatchUseCase().Execute(c.Context(), app.WatchOptions{
				Source:     client,
				Interval:   every,
				Output:     c.OutOrStdout(),
				Logger:     logging.GetGlobal(),
				Now:        now,
				UnreadOnly: unreadOnly,
			})
		},
	}

	watchCmd.Flags().Float64Var(&interval, "interval", 0, "Poll interval in seconds")
	watchCmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only print unread notifications")

	return watchCmd
}

// watchCmd represents the watch command
var watchCmd = NewWatchCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(watchCmd)
}
