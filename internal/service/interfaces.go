package service

import (
	"context"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/report"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
)

// PipelineServicer defines the operations of the governance pipeline service
type PipelineServicer interface {
	RunPipeline(ctx context.Context) (*report.Run, error)
	ListAlerts(ctx context.Context, query repository.AlertQuery) ([]domain.Alert, error)
	AlertCounts(ctx context.Context) ([]repository.SeverityCount, error)
	Ping(ctx context.Context) error
}
