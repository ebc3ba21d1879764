package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type EstimatePriceUseCase interface {
	Execute(ctx context.Context, input domain.ValuationInput) (*domain.Estimate, error)
}
