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

// NewDetectionsCmd creates the detections command with explicit dependencies.
func NewDetectionsCmd(client api.DetectionEndpoints) *cobra.Command {
	if client == nil {
		panic("NewDetectionsCmd: client dependency cannot be nil")
	}

	var (
		list    listFlags
		dates   rangeFlags
		cameras []string
	)

	detectionsCmd := &cobra.Command{
		Use:   "detections",
		Short: "List or search camera detections",
		Long: `List or search the detection history, one page at a time.

USAGE:
    casewatch detections [OPTIONS]

OPTIONS:
    -q, --query <text>       Free-text search
    --period <name>          daily, weekly, monthly or custom
    --from <YYYY-MM-DD>      Start date (custom period)
    --to <YYYY-MM-DD>        End date (custom period)
    --camera <id>            Camera filter, repeatable
    --page <n>               Page to show (default: 1)
    --page-size <n>          Items per page (default: page_size config)
    -o, --output <format>    table, compact or json
    -h, --help               Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, size, err := list.resolve()
			if err != nil {
				return fmt.Errorf("detections: %w", err)
			}
			rng, err := dates.resolve()
			if err != nil {
				return fmt.Errorf("detections: %w", err)
			}
			filter := domain.DetectionFilter{
				Query:   list.query,
				Range:   rng,
				Cameras: splitValues(cameras),
			}
			err = showPage[domain.Detection, domain.DetectionFilter](c.Context(), c.OutOrStdout(), api.DetectionSource{Client: client}, filter, list.page, size,
				domain.DetectionCameras, writeDetections, opts)
			if err != nil {
				return fmt.Errorf("detections: %w", err)
			}
			return nil
		},
	}

	list.register(detectionsCmd)
	dates.register(detectionsCmd)
	detectionsCmd.Flags().StringSliceVar(&cameras, "camera", nil, "Camera filter (repeatable)")

	return detectionsCmd
}

func writeDetections(w io.Writer, st fetch.State[domain.Detection, domain.DetectionFilter], opts format.Options) error {
	if err := format.WriteDetections(w, st, opts); err != nil {
		return err
	}
	return writeFacets(w, "Cameras", st.Facets, opts)
}

// detectionsCmd represents the detections command
var detectionsCmd = NewDetectionsCmd(backend)

func init() {
	cmd.RootCmd.AddCommand(detectionsCmd)
}
