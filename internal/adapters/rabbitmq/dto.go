package rabbitmq

import "github.com/google/uuid"

// ValuationTaskDTO - сообщение в очереди valuation_tasks
type ValuationTaskDTO struct {
	ValuationID uuid.UUID `json:"valuation_id"`
}
