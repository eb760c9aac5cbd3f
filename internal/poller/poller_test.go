package poller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/casewatch/internal/api"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

// feed is an in-memory notification backend served over HTTP.
type feed struct {
	mu      sync.Mutex
	items   []map[string]any
	fail    bool
	listed  int
	patches []string
}

func newFeed(t *testing.T, unread ...bool) (*feed, *api.Client) {
	t.Helper()
	f := &feed{}
	for i, u := range unread {
		f.items = append(f.items, map[string]any{
			"id":        string(rune('a' + i)),
			"message":   "subject sighted",
			"type":      "alert",
			"isRead":    !u,
			"createdAt": created.Format(time.RFC3339),
		})
	}

	r := chi.NewRouter()
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", f.list)
		r.Patch("/read-all", f.readAll)
		r.Patch("/{id}/read", f.readOne)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	return f, client
}

func (f *feed) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.fail {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": f.items})
}

func (f *feed) readAll(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, "all")
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	for _, it := range f.items {
		it["isRead"] = true
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *feed) readOne(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	f.patches = append(f.patches, id)
	for _, it := range f.items {
		if it["id"] == id {
			it["isRead"] = true
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *feed) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *feed) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listed
}

func TestNewPanicsWithoutSource(t *testing.T) {
	assert.Panics(t, func() { New(nil, Options{}) })
}

func TestNewDefaultsInterval(t *testing.T) {
	_, client := newFeed(t)
	p := New(client, Options{})
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestRefreshCountsUnread(t *testing.T) {
	_, client := newFeed(t, true, false, true)
	p := New(client, Options{})

	require.NoError(t, p.Refresh(context.Background()))

	assert.Equal(t, 2, p.UnreadCount())
	snap := p.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Len(t, snap.Notifications, 3)
}

func TestMarkAllAsReadRefetches(t *testing.T) {
	f, client := newFeed(t, true, true, false)
	p := New(client, Options{})
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))
	require.Equal(t, 2, p.UnreadCount())

	require.NoError(t, p.MarkAllAsRead(ctx))

	assert.Equal(t, 0, p.UnreadCount())
	assert.Equal(t, []string{"all"}, f.patches)
	assert.Equal(t, 2, f.listCount())
}

func TestMarkAsReadUpdatesOneAndRefetches(t *testing.T) {
	f, client := newFeed(t, true, true)
	p := New(client, Options{})
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	require.NoError(t, p.MarkAsRead(ctx, "a"))

	assert.Equal(t, 1, p.UnreadCount())
	assert.Equal(t, []string{"a"}, f.patches)
	unread := domain.FilterByRead(p.Snapshot().Notifications, false)
	require.Len(t, unread, 1)
	assert.Equal(t, "b", unread[0].ID)
}

func TestMarkAsReadFailureIsReturned(t *testing.T) {
	f, client := newFeed(t, true)
	p := New(client, Options{})
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	err := p.MarkAsRead(ctx, "missing")

	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, 1, f.listCount(), "no refetch after a failed mutation")
	assert.Equal(t, 1, p.UnreadCount())
}

func TestMarkAllFailureKeepsCount(t *testing.T) {
	f, client := newFeed(t, true, true)
	p := New(client, Options{})
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	f.setFail(true)
	require.Error(t, p.MarkAllAsRead(ctx))
	assert.Equal(t, 2, p.UnreadCount())
}

func TestFailedPollKeepsPreviousState(t *testing.T) {
	f, client := newFeed(t, true, false)
	var updates []Snapshot
	p := New(client, Options{OnUpdate: func(s Snapshot) { updates = append(updates, s) }})
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	f.setFail(true)
	require.Error(t, p.Refresh(ctx))

	snap := p.Snapshot()
	assert.Equal(t, 1, snap.Unread)
	assert.Len(t, snap.Notifications, 2)
	assert.Error(t, snap.Err)
	require.Len(t, updates, 2)
	assert.NoError(t, updates[0].Err)
	assert.Error(t, updates[1].Err)

	f.setFail(false)
	require.NoError(t, p.Refresh(ctx))
	assert.NoError(t, p.Snapshot().Err)
}

func TestRunFetchesImmediatelyThenOnTicks(t *testing.T) {
	f, client := newFeed(t, true)
	ticks := make(chan time.Time)
	p := New(client, Options{TickChan: ticks})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return f.listCount() == 1 }, time.Second, 5*time.Millisecond)
	ticks <- time.Now()
	ticks <- time.Now()
	assert.Eventually(t, func() bool { return f.listCount() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.Equal(t, 1, p.UnreadCount())
}

func TestRunWithRealTickerStopsOnCancel(t *testing.T) {
	f, client := newFeed(t)
	p := New(client, Options{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	assert.Eventually(t, func() bool { return f.listCount() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	settled := f.listCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, f.listCount(), "no polls after Run returns")
}

// stubSource hands each ListNotifications call its own response channel.
type stubSource struct {
	mu    sync.Mutex
	calls []chan []domain.Notification
}

func (s *stubSource) ListNotifications(context.Context) ([]domain.Notification, error) {
	ch := make(chan []domain.Notification)
	s.mu.Lock()
	s.calls = append(s.calls, ch)
	s.mu.Unlock()
	return <-ch, nil
}

func (s *stubSource) call(i int) chan []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.calls) {
		return nil
	}
	return s.calls[i]
}

func (s *stubSource) MarkNotificationRead(context.Context, string) error { return nil }

func (s *stubSource) MarkAllNotificationsRead(context.Context) error { return nil }

func TestOlderRefreshDoesNotOverwriteNewer(t *testing.T) {
	src := &stubSource{}
	p := New(src, Options{})
	ctx := context.Background()

	older := make(chan error, 1)
	go func() { older <- p.Refresh(ctx) }()
	assert.Eventually(t, func() bool { return src.call(0) != nil }, time.Second, time.Millisecond)

	newer := make(chan error, 1)
	go func() { newer <- p.Refresh(ctx) }()
	assert.Eventually(t, func() bool { return src.call(1) != nil }, time.Second, time.Millisecond)

	src.call(1) <- []domain.Notification{{ID: "new", Message: "m", CreatedAt: created}}
	require.NoError(t, <-newer)
	src.call(0) <- []domain.Notification{
		{ID: "old-1", Message: "m", CreatedAt: created},
		{ID: "old-2", Message: "m", CreatedAt: created},
	}
	require.NoError(t, <-older)

	snap := p.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "new", snap.Notifications[0].ID)
	assert.Equal(t, 1, snap.Unread)
}
