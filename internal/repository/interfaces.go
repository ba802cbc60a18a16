package repository

import (
	"context"
	"time"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// AlertQuery filters the alert listing.
type AlertQuery struct {
	Dataset  string
	Severity string
	Status   string
	Limit    int
}

// SeverityCount is one row of the alert dashboard aggregation.
type SeverityCount struct {
	Severity string
	Count    uint64
}

// RunSummary is the persisted outcome of one pipeline run.
type RunSummary struct {
	RunID        string    `ch:"run_id"`
	StartedAt    time.Time `ch:"started_at"`
	FinishedAt   time.Time `ch:"finished_at"`
	RowsIn       uint64    `ch:"rows_in"`
	RowsOut      uint64    `ch:"rows_out"`
	Corrections  uint64    `ch:"corrections"`
	ChecksPassed uint64    `ch:"checks_passed"`
	ChecksTotal  uint64    `ch:"checks_total"`
	SuccessRate  float64   `ch:"success_rate"`
	QualityLevel string    `ch:"quality_level"`
	Alerts       uint64    `ch:"alerts"`
	Escalations  uint64    `ch:"escalations"`
}

// RunRepository stores the audit trail of pipeline runs: corrections,
// alerts and per-run summaries.
type RunRepository interface {
	// InitSchema creates the audit tables if they don't exist.
	InitSchema(ctx context.Context) error

	// InsertCorrections stores the corrections of a run.
	InsertCorrections(ctx context.Context, runID string, corrections []domain.Correction) (int, error)

	// InsertAlerts stores the alerts of a run.
	InsertAlerts(ctx context.Context, runID string, alerts []domain.Alert) (int, error)

	// InsertRunSummary stores the summary row of a finished run.
	InsertRunSummary(ctx context.Context, summary RunSummary) error

	// ListAlerts returns stored alerts, newest first.
	ListAlerts(ctx context.Context, query AlertQuery) ([]domain.Alert, error)

	// CountAlertsBySeverity aggregates stored alerts for the dashboard.
	CountAlertsBySeverity(ctx context.Context) ([]SeverityCount, error)

	// Ping checks if the storage connection is alive.
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}
