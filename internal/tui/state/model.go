// Package state holds the bubbletea model of the dashboard.
package state

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/errors"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/period"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

const (
	defaultViewportWidth = 100
	defaultPollInterval  = poller.DefaultInterval
	defaultDebounce      = 300 * time.Millisecond
	notificationRows     = 5
	errorClearDuration   = 5 * time.Second
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeRange
)

type focusArea int

const (
	focusAlerts focusArea = iota
	focusNotifications
)

// AlertController is the paginated alert feed.
type AlertController interface {
	Refresh(ctx context.Context) error
	SetFilter(ctx context.Context, f domain.AlertFilter) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Snapshot() fetch.State[domain.Alert, domain.AlertFilter]
}

// NotificationFeed is the polled notification list.
type NotificationFeed interface {
	Refresh(ctx context.Context) error
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	Snapshot() poller.Snapshot
}

// Options configures the dashboard model.
type Options struct {
	Alerts       AlertController
	Feed         NotificationFeed
	Selector     *period.Selector
	Logger       logging.Logger
	PollInterval time.Duration
	Debounce     time.Duration
	Now          func() time.Time
}

// Model represents the TUI model for bubbletea.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	alerts       AlertController
	feed         NotificationFeed
	selector     *period.Selector
	logger       logging.Logger
	errorHandler *errors.TUIHandler
	policy       *errors.Policy

	pollInterval time.Duration
	debounce     time.Duration
	now          func() time.Time
	// schedule delivers msg after d; tests replace it to control time.
	schedule func(d time.Duration, msg tea.Msg) tea.Cmd

	alertState fetch.State[domain.Alert, domain.AlertFilter]
	feedState  poller.Snapshot

	search       textinput.Model
	rangeInput   textinput.Model
	mode         inputMode
	focus        focusArea
	searchSeq    int
	appliedQuery string
	risk         domain.RiskLevel
	location     string

	// locationChoices is the facet list the location key cycles through.
	locationChoices []string

	cursor      int
	notifCursor int
	width       int
	height      int

	statusMessage     string
	statusMessageType errors.MessageType
	hasStatusMessage  bool
	statusSeq         int
}

// NewModel creates the dashboard model. Nothing is fetched until Init.
func NewModel(opts Options) (*Model, error) {
	if opts.Alerts == nil {
		return nil, fmt.Errorf("tui: alert controller is required")
	}
	if opts.Feed == nil {
		return nil, fmt.Errorf("tui: notification feed is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Selector == nil {
		opts.Selector = period.NewSelector(period.Clock(opts.Now))
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		ctx:          ctx,
		cancel:       cancel,
		alerts:       opts.Alerts,
		feed:         opts.Feed,
		selector:     opts.Selector,
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		debounce:     opts.Debounce,
		now:          opts.Now,
		schedule:     after,
		alertState:   opts.Alerts.Snapshot(),
		feedState:    opts.Feed.Snapshot(),
		search:       newInput("search alerts"),
		rangeInput:   newInput("2024-03-01 2024-03-14"),
		width:        defaultViewportWidth,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.statusMessage = msg.Text
		m.statusMessageType = msg.Type
		m.hasStatusMessage = msg.Text != ""
	})
	m.policy = errors.NewPolicy(m.errorHandler, opts.Logger)
	return m, nil
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Init loads the first alert page and the notification feed and starts polling.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.applyFilter(),
		m.refreshNotifications(),
		m.schedule(m.pollInterval, pollTickMsg{}),
	)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case alertsMsg:
		return m.handleAlerts(msg)
	case notificationsMsg:
		return m.handleNotifications(msg)
	case pollTickMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		return m, tea.Batch(m.refreshNotifications(), m.schedule(m.pollInterval, pollTickMsg{}))
	case searchDebounceMsg:
		if msg.seq != m.searchSeq || m.search.Value() == m.appliedQuery {
			return m, nil
		}
		return m, m.applyFilter()
	case clearStatusMsg:
		if msg.seq != m.statusSeq {
			return m, nil
		}
		m.statusMessage = ""
		m.hasStatusMessage = false
		return m, nil
	}
	return m, nil
}

// Close cancels in-flight requests and stops polling.
func (m *Model) Close() {
	m.cancel()
}

func (m *Model) currentFilter() domain.AlertFilter {
	f := domain.AlertFilter{
		Query: m.search.Value(),
		Range: m.selector.Range(),
	}
	if m.risk != "" {
		f.Risks = []domain.RiskLevel{m.risk}
	}
	if m.location != "" {
		f.Locations = []string{m.location}
	}
	return f
}

func (m *Model) surface(op string, err error) tea.Cmd {
	_ = m.policy.Mutation(op, err)
	return m.clearStatusLater()
}

// clearStatusLater hides the status line after errorClearDuration unless a
// newer message was shown in the meantime.
func (m *Model) clearStatusLater() tea.Cmd {
	m.statusSeq++
	return m.schedule(errorClearDuration, clearStatusMsg{seq: m.statusSeq})
}
