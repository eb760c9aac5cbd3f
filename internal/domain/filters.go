package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used in query parameters.
const DateLayout = "2006-01-02"

// Criteria is a filter that can be sent to a list or search endpoint.
type Criteria interface {
	// SearchText returns the free-text query; empty selects the list endpoint.
	SearchText() string
	// Values encodes the filter as query parameters, excluding pagination.
	Values() url.Values
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Validate rejects ranges whose start is after their end.
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return fmt.Errorf("start date %s is after end date %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

func (r DateRange) encode(v url.Values) {
	if !r.Start.IsZero() {
		v.Set("startDate", r.Start.Format(DateLayout))
	}
	if !r.End.IsZero() {
		v.Set("endDate", r.End.Format(DateLayout))
	}
}

// ParseDateRange parses two YYYY-MM-DD strings; empty strings leave a bound open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		if r.Start, err = time.ParseInLocation(DateLayout, start, time.Local); err != nil {
			return DateRange{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if end != "" {
		if r.End, err = time.ParseInLocation(DateLayout, end, time.Local); err != nil {
			return DateRange{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return r, r.Validate()
}

// AlertFilter narrows the alert feed.
type AlertFilter struct {
	Query     string
	Range     DateRange
	Risks     []RiskLevel
	Locations []string
}

// SearchText returns the trimmed free-text query.
func (f AlertFilter) SearchText() string { return strings.TrimSpace(f.Query) }

// Values encodes the filter as query parameters.
func (f AlertFilter) Values() url.Values {
	v := url.Values{}
	if q := f.SearchText(); q != "" {
		v.Set("q", q)
	}
	f.Range.encode(v)
	for _, r := range f.Risks {
		v.Add("risk", r.String())
	}
	for _, l := range f.Locations {
		v.Add("location", l)
	}
	return v
}

// PersonFilter narrows the person registry.
type PersonFilter struct {
	Query  string
	Risks  []RiskLevel
	Status PersonStatus
}

// SearchText returns the trimmed free-text query.
func (f PersonFilter) SearchText() string { return strings.TrimSpace(f.Query) }

// Values encodes the filter as query parameters.
func (f PersonFilter) Values() url.Values {
	v := url.Values{}
	if q := f.SearchText(); q != "" {
		v.Set("q", q)
	}
	for _, r := range f.Risks {
		v.Add("risk", r.String())
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	return v
}

// DetectionFilter narrows the detection history.
type DetectionFilter struct {
	Query   string
	Range   DateRange
	Cameras []string
}

// SearchText returns the trimmed free-text query.
func (f DetectionFilter) SearchText() string { return strings.TrimSpace(f.Query) }

// Values encodes the filter as query parameters.
func (f DetectionFilter) Values() url.Values {
	v := url.Values{}
	if q := f.SearchText(); q != "" {
		v.Set("q", q)
	}
	f.Range.encode(v)
	for _, c := range f.Cameras {
		v.Add("camera", c)
	}
	return v
}
