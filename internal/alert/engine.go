package alert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/audit"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
)

// Escalation recipient roles.
const (
	RoleCDO           = "CDO"
	RoleDataOwner     = "Data Owner"
	RoleDataSteward   = "Data Steward"
	RoleDataCustodian = "Data Custodian"
)

// Classify maps a defect percentage to a severity. Below 1% no alert is
// raised; 10% and above is critical.
func Classify(percentage float64) domain.Severity {
	switch {
	case percentage < 1:
		return domain.SeverityNone
	case percentage < 3:
		return domain.SeverityLow
	case percentage < 5:
		return domain.SeverityMedium
	case percentage < 10:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}

// Policy returns the escalation recipients and the resolution SLA for a
// severity.
func Policy(severity domain.Severity) (recipients []string, slaHours int) {
	switch severity {
	case domain.SeverityCritical:
		return []string{RoleCDO, RoleDataOwner, RoleDataSteward}, 4
	case domain.SeverityHigh:
		return []string{RoleDataOwner, RoleDataSteward}, 24
	case domain.SeverityMedium:
		return []string{RoleDataSteward}, 48
	default:
		return []string{RoleDataCustodian}, 168
	}
}

// Engine converts defect counts into severity-classified alerts and
// escalations. An Engine owns the alerts of a single processing run and is
// not safe for concurrent use.
type Engine struct {
	sink   audit.Sink
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
	alerts []*domain.Alert
}

// NewEngine creates an Engine for one alert-processing run.
func NewEngine(sink audit.Sink, log *zap.Logger) *Engine {
	return &Engine{
		sink:  sink,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Alerts returns the alerts created so far, in creation order.
func (e *Engine) Alerts() []domain.Alert {
	out := make([]domain.Alert, len(e.alerts))
	for i, a := range e.alerts {
		out[i] = *a
	}
	return out
}

// CreateAlert classifies the defect ratio and records an alert. It returns
// nil when the percentage is below the alert threshold.
func (e *Engine) CreateAlert(dataset, issue string, affected, total int, details map[string]string) *domain.Alert {
	percentage := 0.0
	if total > 0 {
		percentage = float64(affected) / float64(total) * 100
	}

	severity := Classify(percentage)
	if severity == domain.SeverityNone {
		return nil
	}

	alert := &domain.Alert{
		ID:        e.newID(),
		Timestamp: e.now(),
		Dataset:   dataset,
		Issue:     issue,
		Severity:  severity,
		Affected:  affected,
		Total:     total,
		Percent:   percentage,
		Status:    domain.AlertStatusOpen,
		Details:   details,
	}

	e.alerts = append(e.alerts, alert)
	e.sink.AlertRaised(*alert)

	return alert
}

// EscalateAlert builds an Escalation for any alert from the severity policy
// table. It is a pure function of the alert and the current time; status
// transitions are handled by ProcessAlerts.
func (e *Engine) EscalateAlert(alert domain.Alert) domain.Escalation {
	recipients, slaHours := Policy(alert.Severity)
	return domain.Escalation{
		Alert:       alert,
		Recipients:  recipients,
		SLAHours:    slaHours,
		EscalatedAt: e.now(),
	}
}

// AnalyzeQualityResults raises one alert per failed check (a binary defect:
// one affected record out of one) plus one aggregate alert for the overall
// failure rate. Checks are visited in name order to keep runs deterministic.
func (e *Engine) AnalyzeQualityResults(results quality.Results) {
	names := make([]string, 0, len(results.Checks))
	for name := range results.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		outcome := results.Checks[name]
		if outcome.Success {
			continue
		}
		details := map[string]string{"check": name}
		if outcome.Error != "" {
			details["error"] = outcome.Error
		}
		e.CreateAlert(datasetFromCheckName(name),
			fmt.Sprintf("Quality check failed: %s", name), 1, 1, details)
	}

	summary := results.Summary
	e.CreateAlert(domain.DatasetOverall, "Quality check failure rate",
		summary.Failed, summary.Total, map[string]string{
			"success_rate": fmt.Sprintf("%.1f", summary.SuccessRate),
		})
}

// ProcessResult is the outcome of one whole alert-processing run.
type ProcessResult struct {
	Alerts      []domain.Alert
	Escalations []domain.Escalation
	Dashboard   Dashboard
}

// ProcessAlerts runs the full flow: analyze the checker report, escalate
// high and critical alerts, and group everything into a dashboard.
func (e *Engine) ProcessAlerts(results quality.Results) ProcessResult {
	e.AnalyzeQualityResults(results)

	var escalations []domain.Escalation
	for _, alert := range e.alerts {
		if alert.Severity != domain.SeverityHigh && alert.Severity != domain.SeverityCritical {
			continue
		}
		alert.Status = domain.AlertStatusEscalated
		escalation := e.EscalateAlert(*alert)
		escalations = append(escalations, escalation)

		e.log.Warn("Alert escalated",
			zap.String("alert_id", alert.ID),
			zap.String("dataset", alert.Dataset),
			zap.String("severity", alert.Severity.String()),
			zap.Strings("recipients", escalation.Recipients),
			zap.Int("sla_hours", escalation.SLAHours))
	}

	alerts := e.Alerts()
	result := ProcessResult{
		Alerts:      alerts,
		Escalations: escalations,
		Dashboard:   BuildDashboard(alerts, e.now()),
	}

	e.log.Info("Alert processing finished",
		zap.Int("alerts", len(result.Alerts)),
		zap.Int("escalations", len(result.Escalations)))

	return result
}

// datasetFromCheckName derives the dataset an individual check belongs to.
// Check identifiers are dataset-prefixed ("customers_email_format"); legacy
// checkpoint names ("checkpoint_customers") are also accepted.
func datasetFromCheckName(name string) string {
	trimmed := strings.TrimPrefix(name, "checkpoint_")
	for _, dataset := range []string{
		domain.DatasetCustomers, domain.DatasetProducts,
		domain.DatasetSales, domain.DatasetShipments,
	} {
		if trimmed == dataset || strings.HasPrefix(trimmed, dataset+"_") {
			return dataset
		}
	}
	return trimmed
}
