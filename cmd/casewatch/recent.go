package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/recent"
	"github.com/cristianoliveira/casewatch/internal/storage"
)

type storeOpener func() (storage.KV, error)

// withRecent opens the store, runs fn and closes the store.
func withRecent(open storeOpener, fn func(*recent.Store) error) error {
	kv, err := open()
	if err != nil {
		return fmt.Errorf("recent: %w", err)
	}
	defer func() { _ = kv.Close() }()
	return fn(recent.NewStore(kv, logging.GetGlobal()))
}

// NewRecentCmd creates the recent command with explicit dependencies.
func NewRecentCmd(open storeOpener) *cobra.Command {
	if open == nil {
		panic("NewRecentCmd: open dependency cannot be nil")
	}

	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage recent report recipients",
		Long: `Manage the recently used report recipients. At most two are kept,
most recent first.

USAGE:
    casewatch recent add <email>
    casewatch recent list
    casewatch recent clear`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return c.Help()
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Remember a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			value := recent.Normalize(args[0])
			if value == "" {
				return fmt.Errorf("recent: recipient cannot be empty")
			}
			return withRecent(open, func(s *recent.Store) error {
				if err := s.Add(value); err != nil {
					return err
				}
				colors.Success(fmt.Sprintf("Remembered %s", value))
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent recipients",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withRecent(open, func(s *recent.Store) error {
				for _, v := range s.GetAll() {
					if _, err := fmt.Fprintln(c.OutOrStdout(), v); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all recent recipients",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withRecent(open, func(s *recent.Store) error {
				return s.Clear()
			})
		},
	}

	recentCmd.AddCommand(addCmd, listCmd, clearCmd)
	return recentCmd
}

// recentCmd represents the recent command
var recentCmd = NewRecentCmd(func() (storage.KV, error) { return openStore() })

func init() {
	cmd.RootCmd.AddCommand(recentCmd)
}
