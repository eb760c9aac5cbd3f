package fetch

// Status is what a view should render for a State.
type Status int

const (
	// StatusIdle means nothing was requested yet.
	StatusIdle Status = iota
	// StatusLoading means the first request is in flight.
	StatusLoading
	// StatusError means no page was ever loaded and the last request failed.
	StatusError
	// StatusEmpty means a page was loaded and it has no items.
	StatusEmpty
	// StatusReady means items are available.
	StatusReady
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// State is a point-in-time copy of a controller.
type State[T any, F any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	Filter     F
	// Facets are derived from Items only. They approximate the facets of the
	// whole result set and miss values that only appear on other pages;
	// global facets need a backend aggregation endpoint.
	Facets  []string
	Loading bool
	Loaded  bool
	// Err is the error of the last request, nil after a success. Items are
	// kept from the last successful request when it is set.
	Err error
}

// Status reports what should be rendered. Once a page was loaded, a later
// failure keeps showing that page; an error state is only reported when
// there is nothing to show.
func (s State[T, F]) Status() Status {
	switch {
	case !s.Loaded && s.Loading:
		return StatusLoading
	case !s.Loaded && s.Err != nil:
		return StatusError
	case !s.Loaded:
		return StatusIdle
	case len(s.Items) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}
