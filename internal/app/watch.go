package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/format"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

// WatchOptions holds all parameters for watch behavior.
type WatchOptions struct {
	Source   poller.Source
	Interval time.Duration
	Output   io.Writer
	// TickChan replaces the poll ticker, mainly for tests.
	TickChan <-chan time.Time
	Logger   logging.Logger
	Now      func() time.Time
	// UnreadOnly skips notifications that are already read.
	UnreadOnly bool
}

// WatchUseCase polls notifications and prints what changed.
type WatchUseCase struct{}

// NewWatchUseCase creates a watch use-case.
func NewWatchUseCase() *WatchUseCase {
	return &WatchUseCase{}
}

// Execute polls until ctx is cancelled. Each notification is printed once,
// the first time it is seen, and the unread badge is printed whenever the
// count changes. Failed polls keep the previous badge and print nothing.
func (u *WatchUseCase) Execute(ctx context.Context, opts WatchOptions) error {
	if opts.Source == nil {
		return fmt.Errorf("watch: source dependency cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	colors.Info("Watching notifications (Ctrl+C to stop)...")

	printer := &watchPrinter{
		out:        opts.Output,
		unreadOnly: opts.UnreadOnly,
		seen:       make(map[string]bool),
		lastUnread: -1,
	}
	p := poller.New(opts.Source, poller.Options{
		Interval: opts.Interval,
		TickChan: opts.TickChan,
		Logger:   opts.Logger,
		OnUpdate: printer.update,
		Now:      opts.Now,
	})
	return p.Run(ctx)
}

// watchPrinter is only touched from the poller's Run goroutine.
type watchPrinter struct {
	out        io.Writer
	unreadOnly bool
	seen       map[string]bool
	lastUnread int
}

func (w *watchPrinter) update(snap poller.Snapshot) {
	if !snap.Loaded {
		return
	}

	// Oldest first so the stream reads chronologically.
	for i := len(snap.Notifications) - 1; i >= 0; i-- {
		n := snap.Notifications[i]
		if w.seen[n.ID] {
			continue
		}
		w.seen[n.ID] = true
		if w.unreadOnly && n.Read {
			continue
		}
		printWatchNotification(w.out, n)
	}

	if snap.Unread != w.lastUnread {
		w.lastUnread = snap.Unread
		_, _ = fmt.Fprintf(w.out, "%s%s%s\n", colors.Blue, format.Badge(snap.Unread), colors.Reset)
	}
}

func formatWatchTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func printWatchNotification(w io.Writer, n domain.Notification) {
	msg := fmt.Sprintf("[%s] [%s] %s", formatWatchTimestamp(n.CreatedAt), watchTypeLabel(n.Type), n.Message)
	color := watchColorForType(n.Type)
	if color != "" {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", color, msg, colors.Reset)
		return
	}
	_, _ = fmt.Fprintln(w, msg)
}

func watchTypeLabel(t domain.NotificationType) string {
	if t == "" {
		return string(domain.NotificationInfo)
	}
	return string(t)
}

func watchColorForType(t domain.NotificationType) string {
	switch t {
	case domain.NotificationAlert:
		return colors.Red
	case domain.NotificationWarning:
		return colors.Yellow
	default:
		return ""
	}
}
