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

// NewPersonsCmd creates the persons command with explicit dependencies.
func NewPersonsCmd(client api.PersonEndpoints) *cobra.Command {
	if client == nil {
		panic("NewPersonsCmd: client dependency cannot be nil")
	}

	var (
		list   listFlags
		risks  []string
		status string
	)

	personsCmd := &cobra.Command{
		Use:   "persons",
		Short: "List or search watched persons",
		Long: `List or search the persons on file, one page at a time.

USAGE:
    casewatch persons [OPTIONS]

OPTIONS:
    -q, --query <text>       Free-text search
    --risk <level>           Risk level filter, repeatable (low, medium, high, critical)
    --status <status>        wanted, missing, suspect or cleared
    --page <n>               Page to show (default: 1)
    --page-size <n>          Items per page (default: page_size config)
    -o, --output <format>    table, compact or json
    -h, --help               Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, size, err := list.resolve()
			if err != nil {
				return fmt.Errorf("persons: %w", err)
			}
			levels, err := domain.ParseRiskLevels(splitValues(risks))
			if err != nil {
				return fmt.Errorf("persons: %w", err)
			}
			filter := domain.PersonFilter{Query: list.query, Risks: levels}
			if status != "" {
				if filter.Status, err = domain.ParsePersonStatus(status); err != nil {
					return fmt.Errorf("persons: %w", err)
				}
			}
			err = showPage[domain.Person, domain.PersonFilter](c.Context(), c.OutOrStdout(), api.PersonSource{Client: client}, filter, list.page, size,
				domain.PersonLocations, writePersons, opts)
			if err != nil {
				return fmt.Errorf("persons: %w", err)
			}
			return nil
		},
	}

	list.register(personsCmd)
	personsCmd.Flags().StringSliceVar(&risks, "risk", nil, "Risk level filter (repeatable)")
	personsCmd.Flags().StringVar(&status, "status", "", "Status filter: wanted, missing, suspect or cleared")

	return personsCmd
}

func writePersons(w io.Writer, st fetch.State[domain.Person, domain.PersonFilter], opts format.Options) error {
	if err := format.WritePersons(w, st, opts); err != nil {
		return err
	}
	return writeFacets(w, "Last seen", st.Facets, opts)
}

// personsCmd represents the persons command
var personsCmd = NewPersonsCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(personsCmd)
}
