package domain

import (
	"fmt"
	"time"
)

// AlertStatus is the triage state of an alert.
type AlertStatus string

const (
	AlertOpen         AlertStatus = "open"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// IsValid checks if the alert status is valid. An empty status is accepted
// because older backends omit it.
func (s AlertStatus) IsValid() bool {
	switch s {
	case "", AlertOpen, AlertAcknowledged, AlertResolved:
		return true
	default:
		return false
	}
}

// Alert is a recognition event raised against a watched person.
type Alert struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	PersonID    string      `json:"personId,omitempty"`
	PersonName  string      `json:"personName,omitempty"`
	CameraID    string      `json:"cameraId,omitempty"`
	Location    string      `json:"location,omitempty"`
	Risk        RiskLevel   `json:"riskLevel"`
	Status      AlertStatus `json:"status,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ItemID returns the alert identifier.
func (a Alert) ItemID() string { return a.ID }

// Validate reports the first schema violation in the alert.
func (a Alert) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("alert: missing id")
	}
	if a.CreatedAt.IsZero() {
		return fmt.Errorf("alert %s: missing createdAt", a.ID)
	}
	if !a.Risk.IsValid() {
		return fmt.Errorf("alert %s: invalid riskLevel %q", a.ID, a.Risk)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("alert %s: invalid status %q", a.ID, a.Status)
	}
	return nil
}

// AlertLocations derives the distinct, sorted, non-empty locations of alerts.
//
// When alerts is one page of a paginated result the outcome is a page-local
// approximation: locations that only occur on other pages are missing.
func AlertLocations(alerts []Alert) []string {
	values := make([]string, 0, len(alerts))
	for _, a := range alerts {
		values = append(values, a.Location)
	}
	return Distinct(values)
}
