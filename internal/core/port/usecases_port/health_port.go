package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type HealthUseCase interface {
	Execute(ctx context.Context) domain.HealthReport
}
