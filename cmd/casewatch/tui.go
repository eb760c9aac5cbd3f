package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/api"
	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/pagination"
	"github.com/cristianoliveira/casewatch/internal/period"
	"github.com/cristianoliveira/casewatch/internal/poller"
	"github.com/cristianoliveira/casewatch/internal/tui"
	"github.com/cristianoliveira/casewatch/internal/tui/state"
)

type tuiClient interface {
	api.AlertEndpoints
	poller.Source
}

// runTUI starts the program. Replaced in tests.
var runTUI = func(opts state.Options) error { return tui.Run(opts) }

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive alert dashboard",
		Long: `Open the interactive alert dashboard.

KEYS:
    n / p        Next / previous page
    1 2 3 4      Daily, weekly, monthly, custom period
    d            Edit the custom date range
    /            Search alerts
    f            Cycle the risk filter
    l            Cycle the location filter
    tab          Switch between alerts and notifications
    enter        Mark the selected notification read
    r            Mark all notifications read
    R            Refresh
    q            Quit`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runTUI(dashboardOptions(client))
		},
	}

	return tuiCmd
}

// dashboardOptions wires the controllers from the loaded configuration.
func dashboardOptions(client tuiClient) state.Options {
	logger := logging.GetGlobal()
	selector := period.NewSelector(period.Clock(now))
	alerts := fetch.New[domain.Alert, domain.AlertFilter](api.AlertSource{Client: client}, fetch.Config[domain.Alert, domain.AlertFilter]{
		PageSize: config.GetInt("page_size", pagination.DefaultPageSize),
		Filter:   domain.AlertFilter{Range: selector.Range()},
		Facets:   domain.AlertLocations,
		Logger:   logger.With("component", "alerts"),
	})
	interval := config.GetDuration("poll_interval", time.Second, poller.DefaultInterval)
	feed := poller.New(client, poller.Options{
		Interval: interval,
		Logger:   logger.With("component", "notifications"),
		Now:      now,
	})
	return state.Options{
		Alerts:       alerts,
		Feed:         feed,
		Selector:     selector,
		Logger:       logger,
		PollInterval: interval,
		Debounce:     config.GetDuration("search_debounce_ms", time.Millisecond, 300*time.Millisecond),
		Now:          now,
	}
}

// tuiCmd represents the tui command
var tuiCmd = NewTUICmd(backend)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}
