package domain

import (
	"fmt"
	"time"
)

// Severity classifies a quality alert. The zero value means "below the alert
// threshold, no alert created".
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityNone:     "None",
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity is the inverse of Severity.String. Unknown names map to
// SeverityNone.
func ParseSeverity(name string) Severity {
	for severity, known := range severityNames {
		if known == name {
			return severity
		}
	}
	return SeverityNone
}

// Alert statuses. Only the OPEN → ESCALATED transition is modeled.
const (
	AlertStatusOpen      = "OPEN"
	AlertStatusEscalated = "ESCALATED"
)

// Alert is a severity-classified data quality finding. Immutable after
// creation except for the status transition performed by escalation.
type Alert struct {
	ID        string            `ch:"alert_id" json:"id"`
	Timestamp time.Time         `ch:"timestamp" json:"timestamp"`
	Dataset   string            `ch:"dataset" json:"dataset"`
	Issue     string            `ch:"issue" json:"issue"`
	Severity  Severity          `ch:"-" json:"severity"`
	Affected  int               `ch:"affected_records" json:"affected_records"`
	Total     int               `ch:"total_records" json:"total_records"`
	Percent   float64           `ch:"percentage" json:"percentage"`
	Status    string            `ch:"status" json:"status"`
	Details   map[string]string `ch:"-" json:"details,omitempty"`
}

func (a Alert) String() string {
	return fmt.Sprintf("[%s] %s: %s (%d/%d = %.1f%%)",
		a.Severity, a.Dataset, a.Issue, a.Affected, a.Total, a.Percent)
}

// Escalation snapshots an alert together with the roles responsible for it
// and the resolution SLA.
type Escalation struct {
	Alert       Alert     `json:"alert"`
	Recipients  []string  `json:"recipients"`
	SLAHours    int       `json:"sla_hours"`
	EscalatedAt time.Time `json:"escalated_at"`
}
