// Package fetch provides the paginated, filtered fetch controller shared by
// the alert, person and detection views.
//
// A Controller owns one filter, one pager and the page of items currently
// on display. Every input change issues exactly one request; a newer request
// cancels the older one, and an older response that still arrives is
// discarded, so the last request always wins.
package fetch

import (
	"context"
	"errors"
	"sync"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/pagination"
)

// ErrSuperseded is returned to the caller of a request that was overtaken by a newer one.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Source is a resource with a list endpoint and a free-text search endpoint.
type Source[T any, F domain.Criteria] interface {
	List(ctx context.Context, f F, page, pageSize int) (domain.Page[T], error)
	Search(ctx context.Context, f F, page, pageSize int) (domain.Page[T], error)
}

// FacetFunc derives filter facets from one page of items.
type FacetFunc[T any] func(items []T) []string

// Config configures a Controller.
type Config[T any, F domain.Criteria] struct {
	// PageSize is fixed for the lifetime of the controller.
	PageSize int
	// Filter is the initial filter.
	Filter F
	// Facets derives auxiliary facets from each fetched page.
	Facets FacetFunc[T]
	// Logger receives fetch failures.
	Logger logging.Logger
	// OnChange is called after every state change, outside the lock.
	OnChange func(State[T, F])
}

// Controller is the paginated filtered fetch controller.
type Controller[T any, F domain.Criteria] struct {
	source   Source[T, F]
	facetFn  FacetFunc[T]
	logger   logging.Logger
	onChange func(State[T, F])

	mu      sync.Mutex
	pager   *pagination.Pager
	filter  F
	items   []T
	facets  []string
	loading bool
	loaded  bool
	lastErr error
	gen     uint64
	cancel  context.CancelFunc
}

// New creates a controller. Nothing is fetched until the first input call.
func New[T any, F domain.Criteria](source Source[T, F], cfg Config[T, F]) *Controller[T, F] {
	if source == nil {
		panic("fetch.New: source dependency cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller[T, F]{
		source:   source,
		facetFn:  cfg.Facets,
		logger:   logger,
		onChange: cfg.OnChange,
		pager:    pagination.New(cfg.PageSize),
		filter:   cfg.Filter,
		items:    []T{},
		facets:   []string{},
	}
}

// Refresh refetches the current filter and page.
func (c *Controller[T, F]) Refresh(ctx context.Context) error {
	return c.fetch(ctx, true)
}

// SetFilter replaces the filter, resets to page 1 and refetches.
func (c *Controller[T, F]) SetFilter(ctx context.Context, f F) error {
	c.mu.Lock()
	c.filter = f
	c.pager.Reset()
	c.mu.Unlock()
	return c.fetch(ctx, true)
}

// SetPage jumps to page n (clamped) and refetches if the page changed.
func (c *Controller[T, F]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	moved := c.pager.SetPage(n)
	c.mu.Unlock()
	if !moved {
		return nil
	}
	return c.fetch(ctx, true)
}

// Next advances one page. On the last page, or with an empty collection, it
// is a no-op and issues no request.
func (c *Controller[T, F]) Next(ctx context.Context) error {
	c.mu.Lock()
	moved := c.pager.Next()
	c.mu.Unlock()
	if !moved {
		return nil
	}
	return c.fetch(ctx, true)
}

// Prev goes back one page. On page 1 it is a no-op and issues no request.
func (c *Controller[T, F]) Prev(ctx context.Context) error {
	c.mu.Lock()
	moved := c.pager.Prev()
	c.mu.Unlock()
	if !moved {
		return nil
	}
	return c.fetch(ctx, true)
}

// Close cancels any in-flight request. The controller must not be used afterwards.
func (c *Controller[T, F]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
}

// fetch issues one request for the current filter and page. When the server
// total no longer covers the requested page, the pager is clamped and, if
// followUp is set, the clamped page is fetched once more.
func (c *Controller[T, F]) fetch(ctx context.Context, followUp bool) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	filter := c.filter
	page, pageSize := c.pager.Current(), c.pager.PageSize()
	c.loading = true
	c.mu.Unlock()
	c.notify()

	var result domain.Page[T]
	var err error
	if filter.SearchText() == "" {
		result, err = c.source.List(reqCtx, filter, page, pageSize)
	} else {
		result, err = c.source.Search(reqCtx, filter, page, pageSize)
	}
	cancel()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded response", "page", page)
		return ErrSuperseded
	}
	c.cancel = nil
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("fetch failed, keeping previous collection", "page", page, "error", err)
		c.notify()
		return err
	}

	c.items = result.Data
	if c.items == nil {
		c.items = []T{}
	}
	c.pager.SetTotal(result.Total)
	c.facets = []string{}
	if c.facetFn != nil {
		c.facets = c.facetFn(c.items)
	}
	c.lastErr = nil
	c.loaded = true
	clamped := c.pager.Current() != page
	c.mu.Unlock()
	c.notify()

	if clamped && followUp {
		c.logger.Debug("page out of range after refresh, refetching", "requested", page)
		return c.fetch(ctx, false)
	}
	return nil
}

func (c *Controller[T, F]) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}

// Snapshot returns a copy of the current state.
func (c *Controller[T, F]) Snapshot() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	facets := make([]string, len(c.facets))
	copy(facets, c.facets)
	return State[T, F]{
		Items:      items,
		Total:      c.pager.Total(),
		Page:       c.pager.Current(),
		PageSize:   c.pager.PageSize(),
		TotalPages: c.pager.TotalPages(),
		HasNext:    c.pager.HasNext(),
		HasPrev:    c.pager.HasPrev(),
		Filter:     c.filter,
		Facets:     facets,
		Loading:    c.loading,
		Loaded:     c.loaded,
		Err:        c.lastErr,
	}
}
