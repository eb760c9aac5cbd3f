package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/casewatch/internal/errors"
	"github.com/cristianoliveira/casewatch/internal/format"
	"github.com/cristianoliveira/casewatch/internal/poller"
)

// MarkReadUseCase coordinates mark-read and mark-all-read behavior. Both go
// through the poller so the unread count reported afterwards comes from a
// fresh fetch.
type MarkReadUseCase struct {
	feed   *poller.Poller
	policy *errors.Policy
}

// NewMarkReadUseCase creates a new mark-read use-case.
func NewMarkReadUseCase(source poller.Source, policy *errors.Policy) *MarkReadUseCase {
	if source == nil {
		panic("NewMarkReadUseCase: source dependency cannot be nil")
	}
	if policy == nil {
		policy = errors.NewPolicy(nil, nil)
	}
	return &MarkReadUseCase{feed: poller.New(source, poller.Options{}), policy: policy}
}

// Execute marks one notification read.
func (u *MarkReadUseCase) Execute(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("mark-read: notification id is required")
	}
	if err := u.feed.MarkAsRead(ctx, id); err != nil {
		return u.policy.Mutation("mark-read", err)
	}
	u.policy.Success(fmt.Sprintf("Notification %s marked as read (%s)", id, format.Badge(u.feed.UnreadCount())))
	return nil
}

// ExecuteAll marks every notification read.
func (u *MarkReadUseCase) ExecuteAll(ctx context.Context) error {
	if err := u.feed.MarkAllAsRead(ctx); err != nil {
		return u.policy.Mutation("mark-all-read", err)
	}
	u.policy.Success(fmt.Sprintf("All notifications marked as read (%s)", format.Badge(u.feed.UnreadCount())))
	return nil
}
