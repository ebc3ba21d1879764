package port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

type ClientRepositoryPort interface {
	CreateClient(ctx context.Context, client *domain.Client) error
	// GetClient возвращает domain.ErrClientNotFound, если клиента нет
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}
