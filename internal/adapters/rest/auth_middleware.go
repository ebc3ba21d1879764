package rest

import (
	"net/http"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
	"strings"
)

type AuthMiddleware struct {
	validateUC usecases_port.ValidateTokenUseCase
}

func NewAuthMiddleware(validateUC usecases_port.ValidateTokenUseCase) *AuthMiddleware {
	return &AuthMiddleware{validateUC: validateUC}
}

// Authenticate - middleware для проверки Bearer-токена клиента
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := am.validateUC.Execute(r.Context(), tokenString)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := contextkeys.ContextWithClientClaims(r.Context(), claims)
		logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"client_id": claims.ClientID.String()})
		ctx = contextkeys.ContextWithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
