package alert

import (
	"time"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// SeverityGroup is one dashboard bucket.
type SeverityGroup struct {
	Severity domain.Severity `json:"severity"`
	Count    int             `json:"count"`
	Alerts   []domain.Alert  `json:"alerts"`
}

// Dashboard summarizes the alerts of a run grouped by severity, most severe
// first. Severities without alerts are omitted.
type Dashboard struct {
	GeneratedAt time.Time       `json:"generated_at"`
	TotalAlerts int             `json:"total_alerts"`
	Groups      []SeverityGroup `json:"groups"`
}

// BuildDashboard groups alerts by severity in Critical, High, Medium, Low
// order. Within a group alerts keep their creation order.
func BuildDashboard(alerts []domain.Alert, generatedAt time.Time) Dashboard {
	dashboard := Dashboard{
		GeneratedAt: generatedAt,
		TotalAlerts: len(alerts),
	}

	for _, severity := range []domain.Severity{
		domain.SeverityCritical, domain.SeverityHigh,
		domain.SeverityMedium, domain.SeverityLow,
	} {
		var group []domain.Alert
		for _, a := range alerts {
			if a.Severity == severity {
				group = append(group, a)
			}
		}
		if len(group) == 0 {
			continue
		}
		dashboard.Groups = append(dashboard.Groups, SeverityGroup{
			Severity: severity,
			Count:    len(group),
			Alerts:   group,
		})
	}

	return dashboard
}
