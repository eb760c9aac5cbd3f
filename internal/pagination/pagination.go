// Package pagination provides bounds-checked page navigation over a
// server-paginated collection.
package pagination

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 10

// Pager tracks the current page of a collection whose total is reported by
// the server. The current page is 1-indexed and always within
// [1, max(TotalPages, 1)].
type Pager struct {
	current  int
	pageSize int
	total    int
}

// New returns a pager on page 1 with a fixed page size.
func New(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{current: 1, pageSize: pageSize}
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Current returns the current 1-indexed page.
func (p *Pager) Current() int { return p.current }

// PageSize returns the fixed page size.
func (p *Pager) PageSize() int { return p.pageSize }

// Total returns the last server-reported item count.
func (p *Pager) Total() int { return p.total }

// TotalPages returns the page count for the current total.
func (p *Pager) TotalPages() int { return TotalPages(p.total, p.pageSize) }

// maxPage is the highest reachable page; an empty collection still has page 1.
func (p *Pager) maxPage() int {
	if n := p.TotalPages(); n > 1 {
		return n
	}
	return 1
}

// SetTotal records the server-reported total and re-clamps the current page.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.current = p.clamp(p.current)
}

// HasNext reports whether Next would move.
func (p *Pager) HasNext() bool { return p.current < p.TotalPages() }

// HasPrev reports whether Prev would move.
func (p *Pager) HasPrev() bool { return p.current > 1 }

// Next advances by one page. It is a no-op on the last page or when the
// collection is empty, and reports whether the page changed.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.current++
	return true
}

// Prev goes back one page. It is a no-op on page 1 and reports whether the
// page changed.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.current--
	return true
}

// SetPage jumps to page n, clamped to the valid range, and reports whether
// the page changed.
func (p *Pager) SetPage(n int) bool {
	n = p.clamp(n)
	if n == p.current {
		return false
	}
	p.current = n
	return true
}

// Reset returns to page 1 and reports whether the page changed.
func (p *Pager) Reset() bool {
	if p.current == 1 {
		return false
	}
	p.current = 1
	return true
}

func (p *Pager) clamp(n int) int {
	if n < 1 {
		return 1
	}
	if max := p.maxPage(); n > max {
		return max
	}
	return n
}
