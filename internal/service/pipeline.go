package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/alert"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/audit"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/cleaner"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/loader"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/metrics"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/queue"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/report"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
)

// PipelineService runs the governance pipeline end to end: load, clean,
// evaluate, alert, persist and publish.
type PipelineService struct {
	loader     *loader.Loader
	suites     []quality.Suite
	repository repository.RunRepository
	publisher  queue.EscalationPublisher
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
	newRunID   func() string
}

// NewPipelineService creates the pipeline service. Repository, publisher and
// metrics are optional; a nil dependency disables that side effect.
func NewPipelineService(
	ld *loader.Loader,
	suites []quality.Suite,
	repo repository.RunRepository,
	publisher queue.EscalationPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *PipelineService {
	return &PipelineService{
		loader:     ld,
		suites:     suites,
		repository: repo,
		publisher:  publisher,
		metrics:    m,
		log:        log,
		now:        time.Now,
		newRunID:   func() string { return uuid.NewString() },
	}
}

// RunPipeline executes one full run. Datasets that fail to load are reported
// and skipped; persistence and publishing errors are logged but do not fail
// the run, the in-memory result is always returned.
func (s *PipelineService) RunPipeline(ctx context.Context) (*report.Run, error) {
	runID := s.newRunID()
	startedAt := s.now()

	s.log.Info("Pipeline run started", zap.String("run_id", runID))

	tables, loadErrors := s.loader.LoadAll()
	for dataset, err := range loadErrors {
		s.log.Error("Dataset failed to load",
			zap.String("run_id", runID),
			zap.String("dataset", dataset),
			zap.Error(err))
	}
	if tables.Customers == nil && tables.Products == nil &&
		tables.Sales == nil && tables.Shipments == nil {
		return nil, fmt.Errorf("no dataset could be loaded")
	}

	sink := audit.NewZapSink(s.log)

	cleaned := cleaner.New(runID, sink, s.log).CleanAll(tables)

	evaluator := quality.NewEvaluator(s.suites, cleaned.Tables, s.log)
	checkResults := evaluator.RunAll()

	alertResult := alert.NewEngine(sink, s.log).ProcessAlerts(checkResults)

	run := &report.Run{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: s.now(),
		LoadErrors: loadErrors,
		Cleaning:   cleaned,
		Quality:    checkResults,
		Alerts:     alertResult,
	}

	s.persist(ctx, run)
	s.publish(ctx, run)
	s.observe(run)

	s.log.Info("Pipeline run finished",
		zap.String("run_id", runID),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)),
		zap.Int("corrections", len(cleaned.Corrections)),
		zap.Float64("success_rate", checkResults.Summary.SuccessRate),
		zap.Int("alerts", len(alertResult.Alerts)),
		zap.Int("escalations", len(alertResult.Escalations)))

	return run, nil
}

// ListAlerts returns persisted alerts
func (s *PipelineService) ListAlerts(ctx context.Context, query repository.AlertQuery) ([]domain.Alert, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("alert storage is not configured")
	}
	return s.repository.ListAlerts(ctx, query)
}

// AlertCounts returns the persisted per-severity alert counts
func (s *PipelineService) AlertCounts(ctx context.Context) ([]repository.SeverityCount, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("alert storage is not configured")
	}
	return s.repository.CountAlertsBySeverity(ctx)
}

// Ping checks the storage connection
func (s *PipelineService) Ping(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}
	return s.repository.Ping(ctx)
}

func (s *PipelineService) persist(ctx context.Context, run *report.Run) {
	if s.repository == nil {
		return
	}

	if _, err := s.repository.InsertCorrections(ctx, run.RunID, run.Cleaning.Corrections); err != nil {
		s.log.Error("Failed to persist corrections",
			zap.String("run_id", run.RunID), zap.Error(err))
	}
	if _, err := s.repository.InsertAlerts(ctx, run.RunID, run.Alerts.Alerts); err != nil {
		s.log.Error("Failed to persist alerts",
			zap.String("run_id", run.RunID), zap.Error(err))
	}

	summary := repository.RunSummary{
		RunID:        run.RunID,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		RowsIn:       uint64(rowsIn(run.Cleaning)),
		RowsOut:      uint64(rowsOut(run.Cleaning)),
		Corrections:  uint64(len(run.Cleaning.Corrections)),
		ChecksPassed: uint64(run.Quality.Summary.Successful),
		ChecksTotal:  uint64(run.Quality.Summary.Total),
		SuccessRate:  run.Quality.Summary.SuccessRate,
		QualityLevel: report.QualityLevel(run.Quality.Summary.SuccessRate),
		Alerts:       uint64(len(run.Alerts.Alerts)),
		Escalations:  uint64(len(run.Alerts.Escalations)),
	}
	if err := s.repository.InsertRunSummary(ctx, summary); err != nil {
		s.log.Error("Failed to persist run summary",
			zap.String("run_id", run.RunID), zap.Error(err))
	}
}

func (s *PipelineService) publish(ctx context.Context, run *report.Run) {
	if s.publisher == nil {
		return
	}

	for _, escalation := range run.Alerts.Escalations {
		if err := s.publisher.PublishEscalation(ctx, run.RunID, escalation); err != nil {
			s.log.Error("Failed to publish escalation",
				zap.String("run_id", run.RunID),
				zap.String("alert_id", escalation.Alert.ID),
				zap.Error(err))
		}
	}
}

func (s *PipelineService) observe(run *report.Run) {
	if s.metrics == nil {
		return
	}

	s.metrics.RunsTotal.Inc()
	s.metrics.RunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	s.metrics.SuccessRate.Set(run.Quality.Summary.SuccessRate)

	observeDataset(s.metrics, domain.DatasetCustomers,
		len(run.Cleaning.Customers.Cleaned), len(run.Cleaning.Customers.Dropped), 0)
	observeDataset(s.metrics, domain.DatasetProducts,
		len(run.Cleaning.Products.Cleaned), len(run.Cleaning.Products.Dropped), 0)
	observeDataset(s.metrics, domain.DatasetSales,
		len(run.Cleaning.Sales.Cleaned), len(run.Cleaning.Sales.Dropped), 0)
	observeDataset(s.metrics, domain.DatasetShipments,
		len(run.Cleaning.Shipments.Cleaned), len(run.Cleaning.Shipments.Dropped),
		len(run.Cleaning.Shipments.Flagged))

	for _, correction := range run.Cleaning.Corrections {
		s.metrics.Corrections.WithLabelValues(correction.Dataset).Inc()
	}

	highSeverity := 0
	for _, a := range run.Alerts.Alerts {
		s.metrics.AlertsTotal.WithLabelValues(a.Severity.String()).Inc()
		if a.Severity >= domain.SeverityHigh {
			highSeverity++
		}
	}
	for _, escalation := range run.Alerts.Escalations {
		s.metrics.Escalations.WithLabelValues(escalation.Alert.Severity.String()).Inc()
	}
	s.metrics.OpenHighAlerts.Set(float64(highSeverity))
}

func observeDataset(m *metrics.Metrics, dataset string, kept, dropped, flagged int) {
	m.RowsProcessed.WithLabelValues(dataset, metrics.OutcomeKept).Add(float64(kept))
	m.RowsProcessed.WithLabelValues(dataset, metrics.OutcomeDropped).Add(float64(dropped))
	if flagged > 0 {
		m.RowsProcessed.WithLabelValues(dataset, metrics.OutcomeFlagged).Add(float64(flagged))
	}
}

func rowsIn(result cleaner.Result) int {
	return len(result.Customers.Cleaned) + len(result.Customers.Dropped) +
		len(result.Products.Cleaned) + len(result.Products.Dropped) +
		len(result.Sales.Cleaned) + len(result.Sales.Dropped) +
		len(result.Shipments.Cleaned) + len(result.Shipments.Dropped)
}

func rowsOut(result cleaner.Result) int {
	return len(result.Customers.Cleaned) + len(result.Products.Cleaned) +
		len(result.Sales.Cleaned) + len(result.Shipments.Cleaned)
}
