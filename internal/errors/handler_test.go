package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockColorOutput is a mock implementation of ColorOutput for testing.
type mockColorOutput struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	infos    []string
	success  []string
}

func (m *mockColorOutput) Error(msgs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msgs...)
}

func (m *mockColorOutput) Warning(msgs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msgs...)
}

func (m *mockColorOutput) Info(msgs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msgs...)
}

func (m *mockColorOutput) Success(msgs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.success = append(m.success, msgs...)
}

type tempErr struct{ temp bool }

func (e tempErr) Error() string   { return fmt.Sprintf("status (temporary=%v)", e.temp) }
func (e tempErr) Temporary() bool { return e.temp }

// CLIHandler Tests

func TestCLIHandlerRoutesByLevel(t *testing.T) {
	mock := &mockColorOutput{}
	handler := NewCLIHandler(mock)

	handler.Error("e")
	handler.Warning("w")
	handler.Info("i")
	handler.Success("s")

	assert.Equal(t, []string{"e"}, mock.errors)
	assert.Equal(t, []string{"w"}, mock.warnings)
	assert.Equal(t, []string{"i"}, mock.infos)
	assert.Equal(t, []string{"s"}, mock.success)
}

func TestCLIHandlerConcurrentUse(t *testing.T) {
	mock := &mockColorOutput{}
	handler := NewCLIHandler(mock)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handler.Error("boom")
		}()
	}
	wg.Wait()
	assert.Len(t, mock.errors, 20)
}

func TestDefaultCLIHandlerWritesThroughColors(t *testing.T) {
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	h := NewDefaultCLIHandler()
	h.Error("mark-read failed")
	h.Success("done")

	assert.Contains(t, errOut.String(), "mark-read failed")
	assert.Contains(t, out.String(), "done")
}

// TUIHandler Tests

func TestTUIHandlerStoresMessages(t *testing.T) {
	var seen []Message
	h := NewTUIHandler(func(m Message) { seen = append(seen, m) })
	fixed := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	_, ok := h.GetLatest()
	assert.False(t, ok)

	h.Error("e")
	h.Success("s")

	latest, ok := h.GetLatest()
	require.True(t, ok)
	assert.Equal(t, Message{Text: "s", Type: MessageTypeSuccess, Timestamp: fixed}, latest)
	assert.Len(t, h.GetAll(), 2)
	assert.Len(t, seen, 2)

	h.Clear()
	assert.Empty(t, h.GetAll())
}

func TestTUIHandlerBoundsHistory(t *testing.T) {
	h := NewTUIHandler(nil)
	for i := 0; i < maxMessages+5; i++ {
		h.Info(fmt.Sprint(i))
	}
	all := h.GetAll()
	require.Len(t, all, maxMessages)
	assert.Equal(t, "5", all[0].Text)
}

func TestTUIHandlerCallbackMayReadHandler(t *testing.T) {
	var h *TUIHandler
	h = NewTUIHandler(func(Message) { _ = h.GetAll() })
	h.Error("no deadlock")
}

// Policy Tests

func TestPolicyFetchIsSilent(t *testing.T) {
	tui := NewTUIHandler(nil)
	var buf bytes.Buffer
	p := NewPolicy(tui, logging.New(&buf, "debug"))

	assert.False(t, p.Fetch(nil))
	assert.False(t, p.Fetch(context.Canceled))
	assert.True(t, p.Fetch(stderrors.New("502")))

	assert.Empty(t, tui.GetAll(), "fetch errors are never shown")
	assert.Contains(t, buf.String(), "background fetch failed")
}

func TestPolicyMutationIsSurfaced(t *testing.T) {
	tui := NewTUIHandler(nil)
	var buf bytes.Buffer
	p := NewPolicy(tui, logging.New(&buf, "debug"))
	cause := tempErr{temp: true}

	err := p.Mutation("mark all read", fmt.Errorf("wrap: %w", cause))

	require.ErrorIs(t, err, cause)
	latest, ok := tui.GetLatest()
	require.True(t, ok)
	assert.Equal(t, MessageTypeError, latest.Type)
	assert.Equal(t, "mark all read failed: wrap: status (temporary=true) (try again later)", latest.Text)
	assert.Contains(t, buf.String(), "mutation failed")
}

func TestPolicyMutationNilAndCancelled(t *testing.T) {
	tui := NewTUIHandler(nil)
	p := NewPolicy(tui, nil)

	assert.NoError(t, p.Mutation("mark read", nil))
	assert.ErrorIs(t, p.Mutation("mark read", context.Canceled), context.Canceled)
	assert.Empty(t, tui.GetAll())
}

func TestPolicySuccess(t *testing.T) {
	tui := NewTUIHandler(nil)
	NewPolicy(tui, nil).Success("marked")
	latest, _ := tui.GetLatest()
	assert.Equal(t, MessageTypeSuccess, latest.Type)
}

func TestNewPolicyDefaultsToDiscard(t *testing.T) {
	p := NewPolicy(nil, nil)
	assert.Error(t, p.Mutation("op", stderrors.New("x")))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "op failed: status (temporary=false)", Describe("op", tempErr{}))
	assert.False(t, IsTemporary(stderrors.New("plain")))
}
