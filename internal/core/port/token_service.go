package port

import (
	"context"
	"price-estimator-service/internal/core/domain"
	"time"
)

// TokenServicePort выпускает и проверяет токены доступа клиентов.
type TokenServicePort interface {
	GenerateToken(ctx context.Context, client *domain.Client, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.ClientClaims, error)
}
