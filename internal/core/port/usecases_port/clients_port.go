package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

type RegisterClientUseCase interface {
	Execute(ctx context.Context, name string) (*domain.Client, string, error)
}

type IssueTokenUseCase interface {
	Execute(ctx context.Context, clientID uuid.UUID, apiKey string) (string, error)
}

type ValidateTokenUseCase interface {
	Execute(ctx context.Context, token string) (*domain.ClientClaims, error)
}
