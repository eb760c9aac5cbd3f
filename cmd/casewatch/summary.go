package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/app"
)

// NewSummaryCmd creates the summary command with explicit dependencies.
func NewSummaryCmd(client app.SummaryClient) *cobra.Command {
	if client == nil {
		panic("NewSummaryCmd: client dependency cannot be nil")
	}

	dates := rangeFlags{}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard counters",
		Long: `Show the dashboard counters for a period. All counts are requested
at once; the command fails if any of them fails.

USAGE:
    casewatch summary [OPTIONS]

OPTIONS:
    --period <name>          daily (default), weekly, monthly or custom
    --from <YYYY-MM-DD>      Start date (custom period)
    --to <YYYY-MM-DD>        End date (custom period)
    -h, --help               Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			sel := dates
			if sel.period == "" && sel.from == "" && sel.to == "" {
				sel.period = "daily"
			}
			rng, err := sel.resolve()
			if err != nil {
				return fmt.Errorf("summary: %w", err)
			}
			s, err := app.NewSummaryUseCase(client).Execute(c.Context(), rng)
			if err != nil {
				return err
			}
			return s.Write(c.OutOrStdout())
		},
	}

	dates.register(summaryCmd)

	return summaryCmd
}

// summaryCmd represents the summary command
var summaryCmd = NewSummaryCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(summaryCmd)
}
