package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Item is a record that can be held by a paginated collection.
type Item interface {
	ItemID() string
	Validate() error
}

// Page is one server page of a collection: { "data": [...], "total": n }.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// List is the unpaginated envelope used by the notification feed: { "data": [...] }.
type List[T any] struct {
	Data []T `json:"data"`
}

// ValidateItems validates every item and rejects duplicate identifiers.
// Identity is only checked within the given slice; a record may legitimately
// reappear on a later page if the backend re-sorts between requests.
func ValidateItems[T Item](items []T) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		id := item.ItemID()
		if seen[id] {
			return fmt.Errorf("item %d: duplicate id %s", i, id)
		}
		seen[id] = true
	}
	return nil
}

// ValidatePage checks the page envelope and its items.
func ValidatePage[T Item](p Page[T]) error {
	if p.Data == nil {
		return fmt.Errorf("page: missing data")
	}
	if p.Total < 0 {
		return fmt.Errorf("page: negative total %d", p.Total)
	}
	return ValidateItems(p.Data)
}

// Distinct returns the sorted set of non-blank values.
func Distinct(values []string) []string {
	set := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || set[v] {
			continue
		}
		set[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
