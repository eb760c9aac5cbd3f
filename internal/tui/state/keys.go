package state

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/period"
)

var periodKeys = map[string]period.Period{
	"1": period.Daily,
	"2": period.Weekly,
	"3": period.Monthly,
	"4": period.Custom,
}

var riskCycle = []domain.RiskLevel{"", domain.RiskCritical, domain.RiskHigh, domain.RiskMedium, domain.RiskLow}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeRange:
		return m.handleRangeKey(msg)
	}

	key := msg.String()
	if p, ok := periodKeys[key]; ok {
		return m, m.selectPeriod(p)
	}
	switch key {
	case "q":
		return m.quit()
	case "n":
		return m, m.alertCmd("", m.alerts.Next)
	case "p":
		return m, m.alertCmd("", m.alerts.Prev)
	case "R":
		return m, tea.Batch(m.alertCmd("", m.alerts.Refresh), m.refreshNotifications())
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "d":
		return m, m.editRange()
	case "f":
		m.risk = nextRisk(m.risk)
		return m, m.applyFilter()
	case "l":
		if m.location == "" {
			m.locationChoices = slices.Clone(m.alertState.Facets)
		}
		m.location = nextLocation(m.location, m.locationChoices)
		if m.location == "" {
			m.locationChoices = nil
		}
		return m, m.applyFilter()
	case "tab":
		if m.focus == focusAlerts {
			m.focus = focusNotifications
		} else {
			m.focus = focusAlerts
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "enter":
		return m, m.markSelectedRead()
	case "r":
		return m, m.mutateNotifications("mark all read", "All notifications marked as read", m.feed.MarkAllAsRead)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.search.Blur()
		m.searchSeq++
		if m.search.Value() == m.appliedQuery {
			return m, nil
		}
		return m, m.applyFilter()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, m.schedule(m.debounce, searchDebounceMsg{seq: m.searchSeq}))
}

func (m *Model) handleRangeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.rangeInput.Blur()
		return m, nil
	case tea.KeyEnter:
		rng, err := parseRange(m.rangeInput.Value())
		if err == nil {
			err = m.selector.SetRange(rng)
		}
		if err != nil {
			return m, m.surface("apply date range", err)
		}
		m.mode = modeNormal
		m.rangeInput.Blur()
		return m, m.applyFilter()
	}
	var cmd tea.Cmd
	m.rangeInput, cmd = m.rangeInput.Update(msg)
	return m, cmd
}

func (m *Model) selectPeriod(p period.Period) tea.Cmd {
	reset, err := m.selector.Select(p)
	if err != nil {
		return m.surface("select period", err)
	}
	if !reset {
		m.errorHandler.Info("Custom period: press d to edit dates")
		return m.clearStatusLater()
	}
	return m.applyFilter()
}

func (m *Model) editRange() tea.Cmd {
	if !m.selector.Editable() {
		return m.surface("edit date range", period.ErrRangeNotEditable)
	}
	rng := m.selector.Range()
	m.rangeInput.SetValue(strings.TrimSpace(formatDay(rng.Start) + " " + formatDay(rng.End)))
	m.mode = modeRange
	return m.rangeInput.Focus()
}

func (m *Model) markSelectedRead() tea.Cmd {
	if m.focus != focusNotifications || len(m.feedState.Notifications) == 0 {
		return nil
	}
	n := m.feedState.Notifications[m.notifCursor]
	if n.Read {
		return nil
	}
	return m.mutateNotifications("mark read", "", func(ctx context.Context) error {
		return m.feed.MarkAsRead(ctx, n.ID)
	})
}

func (m *Model) moveCursor(delta int) {
	if m.focus == focusNotifications {
		m.notifCursor = clampIndex(m.notifCursor+delta, len(m.feedState.Notifications))
		return
	}
	m.cursor = clampIndex(m.cursor+delta, len(m.alertState.Items))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func nextRisk(current domain.RiskLevel) domain.RiskLevel {
	for i, r := range riskCycle {
		if r == current {
			return riskCycle[(i+1)%len(riskCycle)]
		}
	}
	return ""
}

// nextLocation cycles through choices and back to no location filter.
// choices are the page facets seen before a location was picked, since a
// filtered page only reports the selected location.
func nextLocation(current string, facets []string) string {
	if current == "" {
		if len(facets) == 0 {
			return ""
		}
		return facets[0]
	}
	for i, f := range facets {
		if f == current && i+1 < len(facets) {
			return facets[i+1]
		}
	}
	return ""
}

func parseRange(value string) (domain.DateRange, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return domain.DateRange{}, fmt.Errorf("expected two dates (YYYY-MM-DD YYYY-MM-DD), got %q", value)
	}
	return domain.ParseDateRange(fields[0], fields[1])
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}
