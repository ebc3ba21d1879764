package contextkeys

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type clientClaimsKeyType struct{}

var clientClaimsKey = clientClaimsKeyType{}

// ContextWithClientClaims помещает данные аутентифицированного клиента в контекст
func ContextWithClientClaims(ctx context.Context, claims *domain.ClientClaims) context.Context {
	return context.WithValue(ctx, clientClaimsKey, claims)
}

// ClientClaimsFromContext возвращает nil, если запрос не прошел аутентификацию
func ClientClaimsFromContext(ctx context.Context) *domain.ClientClaims {
	if claims, ok := ctx.Value(clientClaimsKey).(*domain.ClientClaims); ok {
		return claims
	}
	return nil
}
