package port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

type ValuationRepositoryPort interface {
	CreateValuation(ctx context.Context, valuation domain.Valuation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SaveResult(ctx context.Context, id uuid.UUID, status string, result domain.ValuationResult) error
	GetValuation(ctx context.Context, id uuid.UUID) (*domain.Valuation, error)
}
