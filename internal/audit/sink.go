package audit

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// Sink receives every correction and alert event produced during a run. A
// sink's lifecycle is scoped to one pipeline run; implementations decide
// whether to log, buffer or forward the events.
type Sink interface {
	CorrectionApplied(correction domain.Correction)
	AlertRaised(alert domain.Alert)
}

// ZapSink logs audit events through a zap logger.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink creates a sink that writes audit events to the given logger.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) CorrectionApplied(c domain.Correction) {
	s.log.Info("Correction applied",
		zap.String("dataset", c.Dataset),
		zap.Int64("record_id", c.RecordID),
		zap.String("field", c.Field),
		zap.String("old_value", c.OldValue),
		zap.String("new_value", c.NewValue),
		zap.String("reason", c.Reason))
}

func (s *ZapSink) AlertRaised(a domain.Alert) {
	fields := []zap.Field{
		zap.String("dataset", a.Dataset),
		zap.String("issue", a.Issue),
		zap.String("severity", a.Severity.String()),
		zap.Int("affected", a.Affected),
		zap.Int("total", a.Total),
		zap.Float64("percentage", a.Percent),
	}

	switch a.Severity {
	case domain.SeverityCritical, domain.SeverityHigh:
		s.log.Error("Quality alert raised", fields...)
	case domain.SeverityMedium:
		s.log.Warn("Quality alert raised", fields...)
	default:
		s.log.Info("Quality alert raised", fields...)
	}
}

// MemorySink buffers audit events in memory. Used in tests.
type MemorySink struct {
	mu          sync.Mutex
	Corrections []domain.Correction
	Alerts      []domain.Alert
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) CorrectionApplied(c domain.Correction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Corrections = append(s.Corrections, c)
}

func (s *MemorySink) AlertRaised(a domain.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Alerts = append(s.Alerts, a)
}
