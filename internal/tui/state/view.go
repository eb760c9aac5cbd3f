package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/casewatch/internal/errors"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/format"
	"github.com/cristianoliveira/casewatch/internal/tui/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// View renders the dashboard.
func (m *Model) View() string {
	var b strings.Builder
	now := m.now()

	b.WriteString(titleStyle.Render("casewatch"))
	if badge := render.Badge(m.feedState.Unread); badge != "" {
		b.WriteString("  " + badge)
	}
	b.WriteString("\n")
	b.WriteString(render.Periods(m.selector.Period(), m.selector.Range()))
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	b.WriteString(render.Header(m.width))
	b.WriteString("\n")
	b.WriteString(m.alertBody())
	b.WriteString(render.Pager(m.alertState.Page, m.alertState.TotalPages, m.alertState.Total, m.alertState.HasPrev, m.alertState.HasNext))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Notifications"))
	b.WriteString("  " + format.Updated(m.feedState.UpdatedAt, now))
	b.WriteString("\n")
	b.WriteString(m.notificationBody())

	if m.mode == modeRange {
		b.WriteString("\n" + m.rangeInput.View() + "\n")
	}
	if m.hasStatusMessage {
		b.WriteString("\n" + m.statusLine() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(render.Footer(render.FooterState{
		SearchMode:  m.mode == modeSearch,
		RangeMode:   m.mode == modeRange,
		Editable:    m.selector.Editable(),
		FocusNotifs: m.focus == focusNotifications,
	}))
	return b.String()
}

func (m *Model) filterLine() string {
	if m.mode == modeSearch {
		return m.search.View()
	}
	parts := []string{}
	if q := m.search.Value(); q != "" {
		parts = append(parts, "search: "+q)
	}
	if m.risk != "" {
		parts = append(parts, "risk: "+string(m.risk))
	}
	if m.location != "" {
		parts = append(parts, "location: "+m.location)
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, "  ")
}

func (m *Model) alertBody() string {
	var b strings.Builder
	switch m.alertState.Status() {
	case fetch.StatusLoading, fetch.StatusIdle:
		b.WriteString("Loading alerts...\n")
	case fetch.StatusError:
		b.WriteString(errorStyle.Render(format.ErrorLine("alerts", m.alertState.Err)) + "\n")
	case fetch.StatusEmpty:
		b.WriteString(format.EmptyLine("alerts") + "\n")
	default:
		for i, a := range m.alertState.Items {
			b.WriteString(render.Row(render.AlertRow{
				Alert:    a,
				Width:    m.width,
				Selected: m.focus == focusAlerts && i == m.cursor,
				Now:      m.now(),
			}))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) notificationBody() string {
	notifs := m.feedState.Notifications
	if len(notifs) == 0 {
		if !m.feedState.Loaded && m.feedState.Err != nil {
			return "Notifications unavailable\n"
		}
		return "No notifications\n"
	}
	start := 0
	if m.notifCursor >= notificationRows {
		start = m.notifCursor - notificationRows + 1
	}
	end := min(start+notificationRows, len(notifs))

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(render.Notification(render.NotificationRow{
			Notification: notifs[i],
			Width:        m.width,
			Selected:     m.focus == focusNotifications && i == m.notifCursor,
			Now:          m.now(),
		}))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) statusLine() string {
	switch m.statusMessageType {
	case errors.MessageTypeError, errors.MessageTypeWarning:
		return errorStyle.Render(m.statusMessage)
	case errors.MessageTypeSuccess:
		return successStyle.Render(m.statusMessage)
	default:
		return infoStyle.Render(m.statusMessage)
	}
}
