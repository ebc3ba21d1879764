package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "price-estimator-service"

// TokenService - реализация TokenServicePort на JWT (HS256).
type TokenService struct {
	signingKey []byte
	now        func() time.Time
}

func NewTokenService(signingKey string) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &TokenService{signingKey: []byte(signingKey), now: time.Now}, nil
}

type clientClaims struct {
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	jwt.RegisteredClaims
}

func (s *TokenService) GenerateToken(ctx context.Context, client *domain.Client, ttl time.Duration) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	serviceLogger := logger.WithFields(port.Fields{
		"component": "TokenService",
		"client_id": client.ID.String(),
	})

	now := s.now()
	claims := &clientClaims{
		ClientID: client.ID,
		Name:     client.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		serviceLogger.Error("Failed to sign token", err, nil)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	serviceLogger.Debug("Token generated", port.Fields{"ttl": ttl.String()})
	return signed, nil
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.ClientClaims, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	serviceLogger := logger.WithFields(port.Fields{"component": "TokenService"})

	token, err := jwt.ParseWithClaims(tokenString, &clientClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			serviceLogger.Warn("Token has expired", nil)
		} else {
			serviceLogger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*clientClaims)
	if !ok || !token.Valid || claims.ClientID == uuid.Nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.ClientClaims{ClientID: claims.ClientID, Name: claims.Name}, nil
}
