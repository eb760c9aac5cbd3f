package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/version"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "casewatch",
	Short: "Watch alerts, detections and notifications from the case backend.",
	Long:  `Watch alerts, detections and notifications from the case backend.`,
	// Errors are printed once by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
		}
		logging.GetGlobal().Debug("command started", "command", c.CommandPath())
		return nil
	},
	PersistentPostRun: func(c *cobra.Command, args []string) {
		logging.GetGlobal().Debug("command finished", "command", c.CommandPath())
	},
}

// Execute runs the root command and prints a returned error. Interrupts
// cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logging.ShutdownGlobal() }()
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		colors.Error(err.Error())
		return err
	}
	return nil
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.SetVersionTemplate("casewatch version {{.Version}}\n")

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c != c.Root() {
			writeCommandHelp(c.OutOrStdout(), c)
			return
		}
		printHelpText(c.OutOrStdout(), c)
	})
}

// commandOrder is the order commands appear in the help text.
var commandOrder = []string{
	"alerts",
	"persons",
	"detections",
	"notifications",
	"mark-read",
	"mark-all-read",
	"watch",
	"summary",
	"recent",
	"verify-phone",
	"tui",
	"help",
	"version",
}

func printHelpText(w io.Writer, root *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-22s %s", found.Use, found.Short))
	}

	_, _ = fmt.Fprintf(w, `casewatch v%s

Watch alerts, detections and notifications from the case backend.

USAGE:
    casewatch [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
    -v, --version   Show version
`, version.String(), strings.Join(cmdLines, "\n"))
}

func writeCommandHelp(w io.Writer, c *cobra.Command) {
	if c.Long != "" {
		_, _ = fmt.Fprintln(w, c.Long)
		return
	}
	_, _ = fmt.Fprintln(w, c.UsageString())
}
