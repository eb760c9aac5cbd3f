package domain

import (
	"fmt"
	"time"
)

// NotificationType is the category shown next to a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationAlert   NotificationType = "alert"
	NotificationWarning NotificationType = "warning"
	NotificationSystem  NotificationType = "system"
)

// Notification is an entry of the user's notification feed.
//
// The backend spells the read flag either "read" or "isRead"; decoding of
// both spellings happens at the network boundary.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ItemID returns the notification identifier.
func (n Notification) ItemID() string { return n.ID }

// Validate reports the first schema violation in the notification.
func (n Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification: missing id")
	}
	if n.Message == "" {
		return fmt.Errorf("notification %s: missing message", n.ID)
	}
	if n.CreatedAt.IsZero() {
		return fmt.Errorf("notification %s: missing createdAt", n.ID)
	}
	return nil
}

// CountUnread returns how many notifications are not read.
func CountUnread(notifs []Notification) int {
	count := 0
	for _, n := range notifs {
		if !n.Read {
			count++
		}
	}
	return count
}

// FilterByRead returns the notifications whose read flag equals read.
func FilterByRead(notifs []Notification, read bool) []Notification {
	result := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.Read == read {
			result = append(result, n)
		}
	}
	return result
}
