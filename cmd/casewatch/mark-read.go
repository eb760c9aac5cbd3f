package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/app"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

// NewMarkReadCmd creates the mark-read command with explicit dependencies.
func NewMarkReadCmd(client poller.Source) *cobra.Command {
	if client == nil {
		panic("NewMarkReadCmd: client dependency cannot be nil")
	}

	markReadCmd := &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a notification as read",
		Long: `Mark a notification as read by ID, then report the unread count.

USAGE:
    casewatch mark-read <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return app.NewMarkReadUseCase(client, successPolicy()).Execute(c.Context(), args[0])
		},
	}

	return markReadCmd
}

// NewMarkAllReadCmd creates the mark-all-read command with explicit dependencies.
func NewMarkAllReadCmd(client poller.Source) *cobra.Command {
	if client == nil {
		panic("NewMarkAllReadCmd: client dependency cannot be nil")
	}

	markAllReadCmd := &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		Long: `Mark every notification as read, then report the unread count.

USAGE:
    casewatch mark-all-read

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return app.NewMarkReadUseCase(client, successPolicy()).ExecuteAll(c.Context())
		},
	}

	return markAllReadCmd
}

var (
	// markReadCmd represents the mark-read command
	markReadCmd = NewMarkReadCmd(backend)
	// markAllReadCmd represents the mark-all-read command
	markAllReadCmd = NewMarkAllReadCmd(backend)
)

func init() {
	cmd.RootCmd.AddCommand(markReadCmd, markAllReadCmd)
}
