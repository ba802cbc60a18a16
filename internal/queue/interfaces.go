package queue

import (
	"context"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// EscalationPublisher delivers escalations to the governance notification
// queue.
type EscalationPublisher interface {
	PublishEscalation(ctx context.Context, runID string, escalation domain.Escalation) error
}
