package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/format"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/pagination"
	"github.com/cristianoliveira/casewatch/internal/period"
)

// now is the clock used for period resolution and relative times.
var now = time.Now

// listFlags are shared by the paginated listing commands.
type listFlags struct {
	query    string
	page     int
	pageSize int
	output   string
}

func (f *listFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.query, "query", "q", "", "Free-text search (uses the search endpoint)")
	c.Flags().IntVar(&f.page, "page", 1, "Page to show (clamped to the last page)")
	c.Flags().IntVar(&f.pageSize, "page-size", 0, "Items per page (default: page_size config)")
	c.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: table, compact or json")
}

// resolve validates the flags and fills in configured defaults.
func (f *listFlags) resolve() (format.Options, int, error) {
	style, err := format.ParseStyle(f.output)
	if err != nil {
		return format.Options{}, 0, err
	}
	if f.page < 1 {
		return format.Options{}, 0, fmt.Errorf("--page must be at least 1")
	}
	size := f.pageSize
	if size < 0 {
		return format.Options{}, 0, fmt.Errorf("--page-size must be positive")
	}
	if size == 0 {
		size = config.GetInt("page_size", pagination.DefaultPageSize)
	}
	return format.Options{Style: style, Now: now}, size, nil
}

// rangeFlags select a date range by period name or explicit bounds.
type rangeFlags struct {
	period string
	from   string
	to     string
}

func (f *rangeFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.period, "period", "", "Period: daily, weekly, monthly or custom")
	c.Flags().StringVar(&f.from, "from", "", "Start date YYYY-MM-DD (custom period)")
	c.Flags().StringVar(&f.to, "to", "", "End date YYYY-MM-DD (custom period)")
}

// resolve returns the selected range. Without flags the range is open.
// Explicit bounds imply the custom period and are rejected for the others.
func (f *rangeFlags) resolve() (domain.DateRange, error) {
	if f.period == "" && f.from == "" && f.to == "" {
		return domain.DateRange{}, nil
	}

	p := period.Custom
	if f.period != "" {
		var err error
		if p, err = period.Parse(f.period); err != nil {
			return domain.DateRange{}, err
		}
	}

	sel := period.NewSelector(now)
	if _, err := sel.Select(p); err != nil {
		return domain.DateRange{}, err
	}
	if f.from != "" || f.to != "" {
		rng, err := domain.ParseDateRange(f.from, f.to)
		if err != nil {
			return domain.DateRange{}, err
		}
		if err := sel.SetRange(rng); err != nil {
			return domain.DateRange{}, fmt.Errorf("--from/--to with --period %s: %w", p, err)
		}
	} else if sel.Editable() {
		return domain.DateRange{}, fmt.Errorf("--period custom needs --from and/or --to")
	}
	return sel.Range(), nil
}

// splitValues flattens repeated and comma-separated flag values.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// showPage loads one page through a fetch controller and renders it. The
// first request is for page 1 so the total is known before jumping; the
// jump is clamped to the last page.
func showPage[T any, F domain.Criteria](
	ctx context.Context,
	w io.Writer,
	src fetch.Source[T, F],
	filter F,
	page, pageSize int,
	facets fetch.FacetFunc[T],
	write func(io.Writer, fetch.State[T, F], format.Options) error,
	opts format.Options,
) error {
	ctrl := fetch.New(src, fetch.Config[T, F]{
		PageSize: pageSize,
		Filter:   filter,
		Facets:   facets,
		Logger:   logging.GetGlobal(),
	})
	defer ctrl.Close()

	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	if page > 1 {
		if err := ctrl.SetPage(ctx, page); err != nil {
			return err
		}
	}
	return write(w, ctrl.Snapshot(), opts)
}

// writeFacets prints the page-local facet values after a table.
func writeFacets(w io.Writer, label string, values []string, opts format.Options) error {
	if opts.Style == format.StyleJSON || len(values) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s on this page: %s\n", label, strings.Join(values, ", "))
	return err
}
