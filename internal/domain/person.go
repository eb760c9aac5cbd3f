package domain

import (
	"fmt"
	"strings"
	"time"
)

// PersonStatus classifies why a person is on file.
type PersonStatus string

const (
	PersonWanted  PersonStatus = "wanted"
	PersonMissing PersonStatus = "missing"
	PersonSuspect PersonStatus = "suspect"
	PersonCleared PersonStatus = "cleared"
)

// ParsePersonStatus parses a case-insensitive person status.
func ParsePersonStatus(s string) (PersonStatus, error) {
	st := PersonStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case PersonWanted, PersonMissing, PersonSuspect, PersonCleared:
		return st, nil
	default:
		return "", fmt.Errorf("invalid person status: %s", s)
	}
}

// Person is a suspect or missing-person record.
type Person struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Status           PersonStatus `json:"status,omitempty"`
	Risk             RiskLevel    `json:"riskLevel"`
	LastSeenLocation string       `json:"lastSeenLocation,omitempty"`
	LastSeenAt       *time.Time   `json:"lastSeenAt,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// ItemID returns the person identifier.
func (p Person) ItemID() string { return p.ID }

// Validate reports the first schema violation in the person record.
func (p Person) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("person: missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("person %s: missing name", p.ID)
	}
	if !p.Risk.IsValid() {
		return fmt.Errorf("person %s: invalid riskLevel %q", p.ID, p.Risk)
	}
	return nil
}

// PersonLocations derives the distinct last-seen locations of one page of persons.
func PersonLocations(persons []Person) []string {
	values := make([]string, 0, len(persons))
	for _, p := range persons {
		values = append(values, p.LastSeenLocation)
	}
	return Distinct(values)
}
