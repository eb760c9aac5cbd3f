package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/format"
)

// SummaryClient defines dependencies for the dashboard counters.
type SummaryClient interface {
	ListAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error)
	ListPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error)
	ListDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error)
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}

// Summary holds the dashboard counters for one date range.
type Summary struct {
	Range         domain.DateRange
	Alerts        int
	SevereAlerts  int
	Persons       int
	HighRiskWatch int
	Detections    int
	Unread        int
}

// SummaryUseCase gathers the dashboard counters concurrently.
type SummaryUseCase struct {
	client SummaryClient
}

// NewSummaryUseCase creates a summary use-case.
func NewSummaryUseCase(client SummaryClient) *SummaryUseCase {
	if client == nil {
		panic("NewSummaryUseCase: client dependency cannot be nil")
	}
	return &SummaryUseCase{client: client}
}

// severe is the risk set counted as severe alerts and high-risk persons.
var severe = []domain.RiskLevel{domain.RiskHigh, domain.RiskCritical}

// Execute issues every count request at once. The first failure cancels the
// rest and is returned.
func (u *SummaryUseCase) Execute(ctx context.Context, rng domain.DateRange) (Summary, error) {
	s := Summary{Range: rng}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := u.client.ListAlerts(ctx, domain.AlertFilter{Range: rng}, 1, 1)
		if err != nil {
			return fmt.Errorf("summary: alerts: %w", err)
		}
		s.Alerts = p.Total
		return nil
	})
	g.Go(func() error {
		p, err := u.client.ListAlerts(ctx, domain.AlertFilter{Range: rng, Risks: severe}, 1, 1)
		if err != nil {
			return fmt.Errorf("summary: severe alerts: %w", err)
		}
		s.SevereAlerts = p.Total
		return nil
	})
	g.Go(func() error {
		p, err := u.client.ListPersons(ctx, domain.PersonFilter{}, 1, 1)
		if err != nil {
			return fmt.Errorf("summary: persons: %w", err)
		}
		s.Persons = p.Total
		return nil
	})
	g.Go(func() error {
		p, err := u.client.ListPersons(ctx, domain.PersonFilter{Risks: severe}, 1, 1)
		if err != nil {
			return fmt.Errorf("summary: high-risk persons: %w", err)
		}
		s.HighRiskWatch = p.Total
		return nil
	})
	g.Go(func() error {
		p, err := u.client.ListDetections(ctx, domain.DetectionFilter{Range: rng}, 1, 1)
		if err != nil {
			return fmt.Errorf("summary: detections: %w", err)
		}
		s.Detections = p.Total
		return nil
	})
	g.Go(func() error {
		notifs, err := u.client.ListNotifications(ctx)
		if err != nil {
			return fmt.Errorf("summary: notifications: %w", err)
		}
		s.Unread = domain.CountUnread(notifs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Write renders the summary as aligned lines.
func (s Summary) Write(w io.Writer) error {
	lines := []struct {
		label string
		value string
	}{
		{"Range", rangeLabel(s.Range)},
		{"Alerts", humanize.Comma(int64(s.Alerts))},
		{"High/critical alerts", humanize.Comma(int64(s.SevereAlerts))},
		{"Detections", humanize.Comma(int64(s.Detections))},
		{"Watched persons", humanize.Comma(int64(s.Persons))},
		{"High-risk persons", humanize.Comma(int64(s.HighRiskWatch))},
		{"Notifications", format.Badge(s.Unread)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-22s %s\n", l.label+":", l.value); err != nil {
			return err
		}
	}
	return nil
}

func rangeLabel(r domain.DateRange) string {
	if r.IsZero() {
		return "all time"
	}
	start, end := "…", "…"
	if !r.Start.IsZero() {
		start = r.Start.Format(domain.DateLayout)
	}
	if !r.End.IsZero() {
		end = r.End.Format(domain.DateLayout)
	}
	return start + " to " + end
}
