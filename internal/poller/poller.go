// Package poller keeps the notification list and unread badge in sync with
// the backend.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/logging"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 10 * time.Second

// Source is the notification backend.
type Source interface {
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Options configures a Poller.
type Options struct {
	Interval time.Duration
	// TickChan replaces the internal ticker, mainly for tests.
	TickChan <-chan time.Time
	Logger   logging.Logger
	// OnUpdate is called after every applied refresh, successful or not.
	OnUpdate func(Snapshot)
	Now      func() time.Time
}

// Snapshot is a copy of the poller state.
type Snapshot struct {
	Notifications []domain.Notification
	Unread        int
	Loaded        bool
	UpdatedAt     time.Time
	// Err is the last refresh error; the list is from the last success.
	Err error
}

// Poller fetches notifications on an interval and tracks the unread count.
type Poller struct {
	source   Source
	interval time.Duration
	tickChan <-chan time.Time
	logger   logging.Logger
	onUpdate func(Snapshot)
	now      func() time.Time

	mu            sync.Mutex
	notifications []domain.Notification
	unread        int
	loaded        bool
	updatedAt     time.Time
	lastErr       error
	started       uint64
	applied       uint64
}

// New creates a poller. It does nothing until Run or Refresh is called.
func New(source Source, opts Options) *Poller {
	if source == nil {
		panic("poller.New: source dependency cannot be nil")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Poller{
		source:        source,
		interval:      opts.Interval,
		tickChan:      opts.TickChan,
		logger:        opts.Logger,
		onUpdate:      opts.OnUpdate,
		now:           opts.Now,
		notifications: []domain.Notification{},
	}
}

// Run fetches immediately and then once per interval until ctx is done.
// The ticker is released when Run returns.
func (p *Poller) Run(ctx context.Context) error {
	tickChan, stop := p.setupTickChan()
	defer stop()

	_ = p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickChan:
			_ = p.Refresh(ctx)
		}
	}
}

func (p *Poller) setupTickChan() (<-chan time.Time, func()) {
	if p.tickChan != nil {
		return p.tickChan, func() {}
	}
	ticker := time.NewTicker(p.interval)
	return ticker.C, ticker.Stop
}

// Refresh fetches the full notification list once. A failure keeps the
// previous list and unread count; it is logged and returned.
func (p *Poller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.started++
	seq := p.started
	p.mu.Unlock()

	notifs, err := p.source.ListNotifications(ctx)

	p.mu.Lock()
	if seq < p.applied {
		// a refresh started later already landed
		p.mu.Unlock()
		return err
	}
	p.applied = seq
	if err != nil {
		p.lastErr = err
		p.mu.Unlock()
		p.logger.Warn("notification poll failed, keeping previous list", "error", err)
		p.notify()
		return err
	}
	if notifs == nil {
		notifs = []domain.Notification{}
	}
	p.notifications = notifs
	p.unread = domain.CountUnread(notifs)
	p.loaded = true
	p.updatedAt = p.now()
	p.lastErr = nil
	unread := p.unread
	p.mu.Unlock()

	p.logger.Debug("notifications refreshed", "count", len(notifs), "unread", unread)
	p.notify()
	return nil
}

// MarkAsRead marks one notification read and then refetches the list. The
// local list is never patched in place.
func (p *Poller) MarkAsRead(ctx context.Context, id string) error {
	if err := p.source.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return p.refetchAfterMutation(ctx)
}

// MarkAllAsRead marks every notification read and then refetches the list.
func (p *Poller) MarkAllAsRead(ctx context.Context) error {
	if err := p.source.MarkAllNotificationsRead(ctx); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return p.refetchAfterMutation(ctx)
}

func (p *Poller) refetchAfterMutation(ctx context.Context) error {
	if err := p.Refresh(ctx); err != nil {
		return fmt.Errorf("refetch notifications: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications in the last
// successful fetch.
func (p *Poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	notifs := make([]domain.Notification, len(p.notifications))
	copy(notifs, p.notifications)
	return Snapshot{
		Notifications: notifs,
		Unread:        p.unread,
		Loaded:        p.loaded,
		UpdatedAt:     p.updatedAt,
		Err:           p.lastErr,
	}
}

func (p *Poller) notify() {
	if p.onUpdate == nil {
		return
	}
	p.onUpdate(p.Snapshot())
}
