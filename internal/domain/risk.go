// Package domain provides the records and filter criteria exchanged with
// the case-management backend, plus the validation applied to them at the
// network boundary.
package domain

import (
	"fmt"
	"strings"
)

// RiskLevel is the threat classification attached to alerts and persons.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsValid checks if the risk level is one of the known values.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (r RiskLevel) String() string {
	return string(r)
}

// ParseRiskLevel parses a case-insensitive risk level.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return r, nil
}

// ParseRiskLevels parses a list of risk levels, rejecting the first invalid one.
func ParseRiskLevels(values []string) ([]RiskLevel, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]RiskLevel, 0, len(values))
	for _, v := range values {
		r, err := ParseRiskLevel(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
