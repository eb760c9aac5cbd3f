package state

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/casewatch/internal/fetch"
)

// applyFilter sends the current filter to the alert controller, which
// resets to page 1.
func (m *Model) applyFilter() tea.Cmd {
	f := m.currentFilter()
	m.appliedQuery = f.Query
	m.cursor = 0
	return m.alertCmd("apply filter", func(ctx context.Context) error {
		return m.alerts.SetFilter(ctx, f)
	})
}

// alertCmd runs call against the alert controller. A non-empty op marks a
// user-initiated filter change whose failure is surfaced.
func (m *Model) alertCmd(op string, call func(ctx context.Context) error) tea.Cmd {
	m.alertState.Loading = true
	ctx, alerts := m.ctx, m.alerts
	return func() tea.Msg {
		err := call(ctx)
		return alertsMsg{state: alerts.Snapshot(), err: err, op: op}
	}
}

func (m *Model) refreshNotifications() tea.Cmd {
	ctx, feed := m.ctx, m.feed
	return func() tea.Msg {
		err := feed.Refresh(ctx)
		return notificationsMsg{snap: feed.Snapshot(), err: err}
	}
}

func (m *Model) mutateNotifications(op, success string, call func(ctx context.Context) error) tea.Cmd {
	ctx, feed := m.ctx, m.feed
	return func() tea.Msg {
		err := call(ctx)
		return notificationsMsg{snap: feed.Snapshot(), err: err, op: op, success: success}
	}
}

func (m *Model) handleAlerts(msg alertsMsg) (tea.Model, tea.Cmd) {
	if stderrors.Is(msg.err, fetch.ErrSuperseded) {
		return m, nil
	}
	m.alertState = msg.state
	if m.cursor >= len(m.alertState.Items) {
		m.cursor = max(len(m.alertState.Items)-1, 0)
	}
	if msg.op != "" && msg.err != nil {
		return m, m.surface(msg.op, msg.err)
	}
	m.policy.Fetch(msg.err)
	return m, nil
}

func (m *Model) handleNotifications(msg notificationsMsg) (tea.Model, tea.Cmd) {
	m.feedState = msg.snap
	if m.notifCursor >= len(m.feedState.Notifications) {
		m.notifCursor = max(len(m.feedState.Notifications)-1, 0)
	}
	if msg.op == "" {
		m.policy.Fetch(msg.err)
		return m, nil
	}
	if msg.err != nil {
		return m, m.surface(msg.op, msg.err)
	}
	if msg.success != "" {
		m.policy.Success(msg.success)
		return m, m.clearStatusLater()
	}
	return m, nil
}
