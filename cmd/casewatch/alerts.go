package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/api"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/format"
)

// NewAlertsCmd creates the alerts command with explicit dependencies.
func NewAlertsCmd(client api.AlertEndpoints) *cobra.Command {
	if client == nil {
		panic("NewAlertsCmd: client dependency cannot be nil")
	}

	var (
		list      listFlags
		dates     rangeFlags
		risks     []string
		locations []string
	)

	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "List or search alerts",
		Long: `List or search alerts, one page at a time.

USAGE:
    casewatch alerts [OPTIONS]

OPTIONS:
    -q, --query <text>       Free-text search
    --period <name>          daily, weekly, monthly or custom
    --from <YYYY-MM-DD>      Start date (custom period)
    --to <YYYY-MM-DD>        End date (custom period)
    --risk <level>           Risk level filter, repeatable (low, medium, high, critical)
    --location <name>        Location filter, repeatable
    --page <n>               Page to show (default: 1)
    --page-size <n>          Items per page (default: page_size config)
    -o, --output <format>    table, compact or json
    -h, --help               Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, size, err := list.resolve()
			if err != nil {
				return fmt.Errorf("alerts: %w", err)
			}
			rng, err := dates.resolve()
			if err != nil {
				return fmt.Errorf("alerts: %w", err)
			}
			levels, err := domain.ParseRiskLevels(splitValues(risks))
			if err != nil {
				return fmt.Errorf("alerts: %w", err)
			}
			filter := domain.AlertFilter{
				Query:     list.query,
				Range:     rng,
				Risks:     levels,
				Locations: splitValues(locations),
			}
			err = showPage[domain.Alert, domain.AlertFilter](c.Context(), c.OutOrStdout(), api.AlertSource{Client: client}, filter, list.page, size,
				domain.AlertLocations, writeAlerts, opts)
			if err != nil {
				return fmt.Errorf("alerts: %w", err)
			}
			return nil
		},
	}

	list.register(alertsCmd)
	dates.register(alertsCmd)
	alertsCmd.Flags().StringSliceVar(&risks, "risk", nil, "Risk level filter (repeatable)")
	alertsCmd.Flags().StringSliceVar(&locations, "location", nil, "Location filter (repeatable)")

	return alertsCmd
}

func writeAlerts(w io.Writer, st fetch.State[domain.Alert, domain.AlertFilter], opts format.Options) error {
	if err := format.WriteAlerts(w, st, opts); err != nil {
		return err
	}
	return writeFacets(w, "Locations", st.Facets, opts)
}

// alertsCmd represents the alerts command
var alertsCmd = NewAlertsCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(alertsCmd)
}
