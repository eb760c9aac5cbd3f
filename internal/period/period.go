// Package period resolves coarse time-period selections into concrete
// calendar date ranges.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
)

// Period is a coarse date-range selection.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Custom  Period = "custom"
)

// ErrRangeNotEditable is returned when a range edit is attempted outside Custom.
var ErrRangeNotEditable = errors.New("date range is only editable in the custom period")

// IsValid checks if p is a known period.
func (p Period) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly, Custom:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period.
func (p Period) String() string {
	return string(p)
}

// Parse parses a case-insensitive period name.
func Parse(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid period: %s", s)
	}
	return p, nil
}

// Clock returns the current time.
type Clock func() time.Time

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Resolve computes the range a non-custom period covers relative to now.
// Monthly uses calendar-month subtraction, so 2024-03-31 resolves to a start
// of 2024-03-02 (Go normalizes February 31st).
func Resolve(p Period, now time.Time) (domain.DateRange, error) {
	today := Today(now)
	switch p {
	case Daily:
		return domain.DateRange{Start: today, End: today}, nil
	case Weekly:
		return domain.DateRange{Start: today.AddDate(0, 0, -7), End: today}, nil
	case Monthly:
		return domain.DateRange{Start: today.AddDate(0, -1, 0), End: today}, nil
	case Custom:
		return domain.DateRange{}, fmt.Errorf("custom period has no derived range")
	default:
		return domain.DateRange{}, fmt.Errorf("invalid period: %s", p)
	}
}

// Selector is the time-period state machine. Daily is the initial state.
// Every non-custom selection recomputes the range from the clock at the
// moment of selection; Custom keeps whatever range was there and unlocks
// SetRange.
type Selector struct {
	clock  Clock
	period Period
	rng    domain.DateRange
}

// NewSelector returns a selector in the Daily state.
func NewSelector(clock Clock) *Selector {
	if clock == nil {
		clock = time.Now
	}
	s := &Selector{clock: clock, period: Daily}
	s.rng, _ = Resolve(Daily, clock())
	return s
}

// Period returns the current state.
func (s *Selector) Period() Period { return s.period }

// Range returns the current date range.
func (s *Selector) Range() domain.DateRange { return s.rng }

// Editable reports whether the range can be edited by hand.
func (s *Selector) Editable() bool { return s.period == Custom }

// Select transitions to p. It reports whether the caller must reset its
// pagination to page 1, which happens on every non-custom selection.
func (s *Selector) Select(p Period) (resetPage bool, err error) {
	if !p.IsValid() {
		return false, fmt.Errorf("invalid period: %s", p)
	}
	s.period = p
	if p == Custom {
		return false, nil
	}
	rng, err := Resolve(p, s.clock())
	if err != nil {
		return false, err
	}
	s.rng = rng
	return true, nil
}

// SetRange edits the range; it is only allowed in the Custom state.
// Bounds are truncated to calendar days.
func (s *Selector) SetRange(r domain.DateRange) error {
	if s.period != Custom {
		return ErrRangeNotEditable
	}
	if !r.Start.IsZero() {
		r.Start = Today(r.Start)
	}
	if !r.End.IsZero() {
		r.End = Today(r.End)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	s.rng = r
	return nil
}
