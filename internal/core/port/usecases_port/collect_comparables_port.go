package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type CollectComparablesUseCase interface {
	Execute(ctx context.Context, query domain.Query) []domain.Comparable
}
