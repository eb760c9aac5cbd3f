package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
)

// notificationWire accepts both spellings of the read flag.
type notificationWire struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Type      domain.NotificationType `json:"type"`
	Read      *bool                   `json:"read"`
	IsRead    *bool                   `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

// toDomain normalizes the read flag; when both are present, read wins.
func (w notificationWire) toDomain() (domain.Notification, error) {
	n := domain.Notification{
		ID:        w.ID,
		Message:   w.Message,
		Type:      w.Type,
		CreatedAt: w.CreatedAt,
	}
	switch {
	case w.Read != nil:
		n.Read = *w.Read
	case w.IsRead != nil:
		n.Read = *w.IsRead
	default:
		return domain.Notification{}, fmt.Errorf("notification %s: missing read/isRead", w.ID)
	}
	return n, nil
}

// ListNotifications fetches the whole notification feed.
func (c *Client) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	var wire domain.List[notificationWire]
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &wire); err != nil {
		return nil, err
	}
	if wire.Data == nil {
		return nil, fmt.Errorf("api: GET /notifications: %w: missing data", ErrMalformedResponse)
	}
	notifs := make([]domain.Notification, 0, len(wire.Data))
	for _, w := range wire.Data {
		n, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("api: GET /notifications: %w: %v", ErrMalformedResponse, err)
		}
		notifs = append(notifs, n)
	}
	if err := domain.ValidateItems(notifs); err != nil {
		return nil, fmt.Errorf("api: GET /notifications: %w: %v", ErrMalformedResponse, err)
	}
	return notifs, nil
}

// MarkNotificationRead marks a single notification as read. Success is any 2xx.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("api: mark read: %w", ErrInvalidID)
	}
	return c.do(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// MarkAllNotificationsRead marks every notification of the user as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/notifications/read-all", nil, nil, nil)
}
