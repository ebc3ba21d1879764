package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

type SubmitValuationUseCase interface {
	Execute(ctx context.Context, clientID uuid.UUID, input domain.ValuationInput) (uuid.UUID, error)
}

type ProcessValuationUseCase interface {
	Execute(ctx context.Context, valuationID uuid.UUID) error
}

// GetValuationUseCase отдает заявку только ее владельцу.
type GetValuationUseCase interface {
	Execute(ctx context.Context, clientID, valuationID uuid.UUID) (*domain.Valuation, error)
}
