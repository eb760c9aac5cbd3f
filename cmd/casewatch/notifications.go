package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/format"
)

type notificationsClient interface {
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}

// NewNotificationsCmd creates the notifications command with explicit dependencies.
func NewNotificationsCmd(client notificationsClient) *cobra.Command {
	if client == nil {
		panic("NewNotificationsCmd: client dependency cannot be nil")
	}

	var (
		unreadOnly  bool
		unreadCount bool
		output      string
	)

	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Long: `List the notification feed, newest first.

USAGE:
    casewatch notifications [OPTIONS]

OPTIONS:
    --unread                 Show only unread notifications
    --unread-count           Print only the number of unread notifications
    -o, --output <format>    table, compact or json
    -h, --help               Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			style, err := format.ParseStyle(output)
			if err != nil {
				return fmt.Errorf("notifications: %w", err)
			}
			notifs, err := client.ListNotifications(c.Context())
			if err != nil {
				return fmt.Errorf("notifications: %w", err)
			}
			if unreadCount {
				_, err = fmt.Fprintln(c.OutOrStdout(), domain.CountUnread(notifs))
				return err
			}
			if unreadOnly {
				notifs = domain.FilterByRead(notifs, false)
			}
			return format.WriteNotifications(c.OutOrStdout(), notifs, format.Options{Style: style, Now: now})
		},
	}

	notificationsCmd.Flags().BoolVar(&unreadOnly, "unread", false, "Show only unread notifications")
	notificationsCmd.Flags().BoolVar(&unreadCount, "unread-count", false, "Print only the unread count")
	notificationsCmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, compact or json")

	return notificationsCmd
}

// notificationsCmd represents the notifications command
var notificationsCmd = NewNotificationsCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(notificationsCmd)
}
