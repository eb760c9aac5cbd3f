package state

import (
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

// alertsMsg carries the controller state after an alert request finished.
// op is set for requests started by a filter change.
type alertsMsg struct {
	state fetch.State[domain.Alert, domain.AlertFilter]
	err   error
	op    string
}

// notificationsMsg carries the feed state after a refresh or a mutation.
// op is empty for background refreshes.
type notificationsMsg struct {
	snap    poller.Snapshot
	err     error
	op      string
	success string
}

// pollTickMsg triggers the next notification poll.
type pollTickMsg struct{}

// searchDebounceMsg fires after the search input went quiet. Only the
// message matching the latest keystroke applies the query.
type searchDebounceMsg struct {
	seq int
}

// clearStatusMsg hides the status line if no newer message replaced it.
type clearStatusMsg struct {
	seq int
}
