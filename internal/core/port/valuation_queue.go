package port

import (
	"context"

	"github.com/google/uuid"
)

// ValuationQueuePort ставит заявку на оценку в очередь фоновой обработки.
type ValuationQueuePort interface {
	Enqueue(ctx context.Context, valuationID uuid.UUID) error
}
