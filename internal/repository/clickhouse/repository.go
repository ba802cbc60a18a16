package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
)

// Repository implements RunRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the audit tables. MergeTree suffices here: rows are
// append-only and never rewritten.
func (r *Repository) InitSchema(ctx context.Context) error {
	queries := map[string]string{
		"corrections": `
		CREATE TABLE IF NOT EXISTS corrections (
			run_id String,
			timestamp DateTime64(3),
			dataset LowCardinality(String),
			record_id Int64,
			field LowCardinality(String),
			old_value String,
			new_value String,
			reason String
		) ENGINE = MergeTree()
		ORDER BY (run_id, dataset, record_id)
		PARTITION BY toYYYYMM(timestamp)
		SETTINGS index_granularity = 8192
		`,
		"alerts": `
		CREATE TABLE IF NOT EXISTS alerts (
			alert_id String,
			run_id String,
			timestamp DateTime64(3),
			dataset LowCardinality(String),
			issue String,
			severity LowCardinality(String),
			affected_records UInt64,
			total_records UInt64,
			percentage Float64,
			status LowCardinality(String),
			details String
		) ENGINE = MergeTree()
		ORDER BY (timestamp, severity)
		PARTITION BY toYYYYMM(timestamp)
		SETTINGS index_granularity = 8192
		`,
		"run_summaries": `
		CREATE TABLE IF NOT EXISTS run_summaries (
			run_id String,
			started_at DateTime64(3),
			finished_at DateTime64(3),
			rows_in UInt64,
			rows_out UInt64,
			corrections UInt64,
			checks_passed UInt64,
			checks_total UInt64,
			success_rate Float64,
			quality_level LowCardinality(String),
			alerts UInt64,
			escalations UInt64
		) ENGINE = MergeTree()
		ORDER BY (started_at)
		SETTINGS index_granularity = 8192
		`,
	}

	for table, query := range queries {
		if err := r.client.Conn().Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table, err)
		}
	}

	r.log.Info("ClickHouse schema initialized")
	return nil
}

// InsertCorrections stores the corrections of a run as one batch
func (r *Repository) InsertCorrections(ctx context.Context, runID string, corrections []domain.Correction) (int, error) {
	if len(corrections) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO corrections")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare corrections batch: %w", err)
	}

	inserted := 0
	for _, c := range corrections {
		err := batch.Append(
			runID,
			c.Timestamp,
			c.Dataset,
			c.RecordID,
			c.Field,
			c.OldValue,
			c.NewValue,
			c.Reason,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append correction to batch: %w", err)
		}
		inserted++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send corrections batch: %w", err)
	}

	return inserted, nil
}

// InsertAlerts stores the alerts of a run as one batch
func (r *Repository) InsertAlerts(ctx context.Context, runID string, alerts []domain.Alert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO alerts")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare alerts batch: %w", err)
	}

	inserted := 0
	for _, a := range alerts {
		detailsJSON := "{}"
		if len(a.Details) > 0 {
			encoded, err := json.Marshal(a.Details)
			if err != nil {
				return 0, fmt.Errorf("failed to encode alert details: %w", err)
			}
			detailsJSON = string(encoded)
		}

		err := batch.Append(
			a.ID,
			runID,
			a.Timestamp,
			a.Dataset,
			a.Issue,
			a.Severity.String(),
			uint64(a.Affected),
			uint64(a.Total),
			a.Percent,
			a.Status,
			detailsJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append alert to batch: %w", err)
		}
		inserted++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send alerts batch: %w", err)
	}

	return inserted, nil
}

// InsertRunSummary stores the summary row of a finished run
func (r *Repository) InsertRunSummary(ctx context.Context, summary repository.RunSummary) error {
	query := `
	INSERT INTO run_summaries (
		run_id, started_at, finished_at, rows_in, rows_out, corrections,
		checks_passed, checks_total, success_rate, quality_level, alerts, escalations
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := r.client.Conn().Exec(ctx, query,
		summary.RunID, summary.StartedAt, summary.FinishedAt,
		summary.RowsIn, summary.RowsOut, summary.Corrections,
		summary.ChecksPassed, summary.ChecksTotal, summary.SuccessRate,
		summary.QualityLevel, summary.Alerts, summary.Escalations,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run summary: %w", err)
	}

	return nil
}

// ListAlerts returns stored alerts, newest first
func (r *Repository) ListAlerts(ctx context.Context, query repository.AlertQuery) ([]domain.Alert, error) {
	whereClause := "WHERE 1 = 1"
	args := []interface{}{}

	if query.Dataset != "" {
		whereClause += " AND dataset = ?"
		args = append(args, query.Dataset)
	}
	if query.Severity != "" {
		whereClause += " AND severity = ?"
		args = append(args, query.Severity)
	}
	if query.Status != "" {
		whereClause += " AND status = ?"
		args = append(args, query.Status)
	}

	limit := query.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	listQuery := fmt.Sprintf(`
		SELECT alert_id, timestamp, dataset, issue, severity,
		       affected_records, total_records, percentage, status, details
		FROM alerts
		%s
		ORDER BY timestamp DESC
		LIMIT %d
	`, whereClause, limit)

	rows, err := r.client.Conn().Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close alert rows", zap.Error(err))
		}
	}(rows)

	var alerts []domain.Alert
	for rows.Next() {
		var (
			alert       domain.Alert
			severity    string
			affected    uint64
			total       uint64
			detailsJSON string
		)
		err := rows.Scan(&alert.ID, &alert.Timestamp, &alert.Dataset, &alert.Issue,
			&severity, &affected, &total, &alert.Percent, &alert.Status, &detailsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}

		alert.Severity = domain.ParseSeverity(severity)
		alert.Affected = int(affected)
		alert.Total = int(total)
		if detailsJSON != "" && detailsJSON != "{}" {
			if err := json.Unmarshal([]byte(detailsJSON), &alert.Details); err != nil {
				r.log.Warn("Skipping malformed alert details",
					zap.String("alert_id", alert.ID), zap.Error(err))
			}
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}

	return alerts, nil
}

// CountAlertsBySeverity aggregates stored alerts for the dashboard
func (r *Repository) CountAlertsBySeverity(ctx context.Context) ([]repository.SeverityCount, error) {
	query := `
		SELECT severity, count() as total
		FROM alerts
		GROUP BY severity
		ORDER BY total DESC
	`

	rows, err := r.client.Conn().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert counts: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close alert count rows", zap.Error(err))
		}
	}(rows)

	var counts []repository.SeverityCount
	for rows.Next() {
		var count repository.SeverityCount
		if err := rows.Scan(&count.Severity, &count.Count); err != nil {
			return nil, fmt.Errorf("failed to scan alert count row: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert count rows: %w", err)
	}

	return counts, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}
