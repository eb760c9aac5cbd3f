package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/dustin/go-humanize"
)

// relative renders t relative to now, or "-" for the zero time.
func relative(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// AlertColumns are the columns of the alert listing.
func AlertColumns(now time.Time) []Column[domain.Alert] {
	return []Column[domain.Alert]{
		{Name: "ID", Width: 10, Extract: func(a domain.Alert) string { return a.ID }},
		{Name: "Risk", Width: 8, Extract: func(a domain.Alert) string { return string(a.Risk) }},
		{Name: "Title", Width: 30, Extract: func(a domain.Alert) string { return a.Title }},
		{Name: "Person", Width: 18, Extract: func(a domain.Alert) string { return orDash(a.PersonName) }},
		{Name: "Location", Width: 16, Extract: func(a domain.Alert) string { return orDash(a.Location) }},
		{Name: "Status", Width: 12, Extract: func(a domain.Alert) string { return orDash(string(a.Status)) }},
		{Name: "Created", Width: 16, Extract: func(a domain.Alert) string { return relative(a.CreatedAt, now) }},
	}
}

// PersonColumns are the columns of the person listing.
func PersonColumns(now time.Time) []Column[domain.Person] {
	return []Column[domain.Person]{
		{Name: "ID", Width: 10, Extract: func(p domain.Person) string { return p.ID }},
		{Name: "Name", Width: 22, Extract: func(p domain.Person) string { return p.Name }},
		{Name: "Risk", Width: 8, Extract: func(p domain.Person) string { return orDash(string(p.Risk)) }},
		{Name: "Status", Width: 10, Extract: func(p domain.Person) string { return orDash(string(p.Status)) }},
		{Name: "Last seen", Width: 16, Extract: func(p domain.Person) string { return orDash(p.LastSeenLocation) }},
		{Name: "When", Width: 16, Extract: func(p domain.Person) string {
			if p.LastSeenAt == nil {
				return "-"
			}
			return relative(*p.LastSeenAt, now)
		}},
	}
}

// DetectionColumns are the columns of the detection listing.
func DetectionColumns(now time.Time) []Column[domain.Detection] {
	return []Column[domain.Detection]{
		{Name: "ID", Width: 10, Extract: func(d domain.Detection) string { return d.ID }},
		{Name: "Person", Width: 10, Extract: func(d domain.Detection) string { return orDash(d.PersonID) }},
		{Name: "Camera", Width: 12, Extract: func(d domain.Detection) string { return orDash(d.CameraID) }},
		{Name: "Location", Width: 16, Extract: func(d domain.Detection) string { return orDash(d.Location) }},
		{Name: "Match", Width: 6, Alignment: "right", Extract: func(d domain.Detection) string { return Confidence(d.Confidence) }},
		{Name: "Detected", Width: 16, Extract: func(d domain.Detection) string { return relative(d.DetectedAt, now) }},
	}
}

// NotificationColumns are the columns of the notification listing.
func NotificationColumns(now time.Time) []Column[domain.Notification] {
	return []Column[domain.Notification]{
		{Name: "", Width: 1, Extract: func(n domain.Notification) string {
			if n.Read {
				return " "
			}
			return "*"
		}},
		{Name: "ID", Width: 10, Extract: func(n domain.Notification) string { return n.ID }},
		{Name: "Type", Width: 8, Extract: func(n domain.Notification) string { return orDash(string(n.Type)) }},
		{Name: "Message", Width: 44, Extract: func(n domain.Notification) string { return n.Message }},
		{Name: "Created", Width: 16, Extract: func(n domain.Notification) string { return relative(n.CreatedAt, now) }},
	}
}

// Confidence renders a 0..1 match score as a percentage.
func Confidence(c float64) string {
	return fmt.Sprintf("%s%%", humanize.FtoaWithDigits(c*100, 1))
}
