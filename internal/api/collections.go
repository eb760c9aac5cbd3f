package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cristianoliveira/casewatch/internal/domain"
)

// pageWire is the page envelope with a required total.
type pageWire[T any] struct {
	Data  []T  `json:"data"`
	Total *int `json:"total"`
}

// getPage fetches and validates one page of a collection.
func getPage[T domain.Item](ctx context.Context, c *Client, path string, values url.Values, page, pageSize int) (domain.Page[T], error) {
	var wire pageWire[T]
	if err := c.do(ctx, http.MethodGet, path, pageQuery(values, page, pageSize), nil, &wire); err != nil {
		return domain.Page[T]{}, err
	}
	if wire.Total == nil {
		return domain.Page[T]{}, fmt.Errorf("api: GET %s: %w: missing total", path, ErrMalformedResponse)
	}
	p := domain.Page[T]{Data: wire.Data, Total: *wire.Total}
	if err := domain.ValidatePage(p); err != nil {
		return domain.Page[T]{}, fmt.Errorf("api: GET %s: %w: %v", path, ErrMalformedResponse, err)
	}
	return p, nil
}

// ListAlerts fetches one page of the alert feed.
func (c *Client) ListAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	values := f.Values()
	values.Del("q")
	return getPage[domain.Alert](ctx, c, "/alerts", values, page, pageSize)
}

// SearchAlerts runs a free-text search over alerts.
func (c *Client) SearchAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	return getPage[domain.Alert](ctx, c, "/alerts/search", f.Values(), page, pageSize)
}

// ListPersons fetches one page of the person registry.
func (c *Client) ListPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	values := f.Values()
	values.Del("q")
	return getPage[domain.Person](ctx, c, "/persons", values, page, pageSize)
}

// SearchPersons runs a free-text search over persons.
func (c *Client) SearchPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	return getPage[domain.Person](ctx, c, "/persons/search", f.Values(), page, pageSize)
}

// ListDetections fetches one page of detections.
func (c *Client) ListDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	values := f.Values()
	values.Del("q")
	return getPage[domain.Detection](ctx, c, "/detections", values, page, pageSize)
}

// SearchDetections runs a free-text search over detections.
func (c *Client) SearchDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	return getPage[domain.Detection](ctx, c, "/detections/search", f.Values(), page, pageSize)
}

// AlertEndpoints are the alert calls of Client.
type AlertEndpoints interface {
	ListAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error)
	SearchAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error)
}

// PersonEndpoints are the person calls of Client.
type PersonEndpoints interface {
	ListPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error)
	SearchPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error)
}

// DetectionEndpoints are the detection calls of Client.
type DetectionEndpoints interface {
	ListDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error)
	SearchDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error)
}

// AlertSource adapts the alert endpoints to a fetch controller source.
type AlertSource struct{ Client AlertEndpoints }

// List calls ListAlerts.
func (s AlertSource) List(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	return s.Client.ListAlerts(ctx, f, page, pageSize)
}

// Search calls SearchAlerts.
func (s AlertSource) Search(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	return s.Client.SearchAlerts(ctx, f, page, pageSize)
}

// PersonSource adapts the person endpoints to a fetch controller source.
type PersonSource struct{ Client PersonEndpoints }

// List calls ListPersons.
func (s PersonSource) List(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	return s.Client.ListPersons(ctx, f, page, pageSize)
}

// Search calls SearchPersons.
func (s PersonSource) Search(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	return s.Client.SearchPersons(ctx, f, page, pageSize)
}

// DetectionSource adapts the detection endpoints to a fetch controller source.
type DetectionSource struct{ Client DetectionEndpoints }

// List calls ListDetections.
func (s DetectionSource) List(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	return s.Client.ListDetections(ctx, f, page, pageSize)
}

// Search calls SearchDetections.
func (s DetectionSource) Search(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	return s.Client.SearchDetections(ctx, f, page, pageSize)
}
