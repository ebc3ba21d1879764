package token_adapter

import (
	"context"
	"price-estimator-service/internal/core/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret")
	require.NoError(t, err)

	client := &domain.Client{ID: uuid.New(), Name: "partner"}
	token, err := svc.GenerateToken(context.Background(), client, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, client.ID, claims.ClientID)
	assert.Equal(t, "partner", claims.Name)
}

func TestExpiredToken(t *testing.T) {
	svc, err := NewTokenService("secret")
	require.NoError(t, err)

	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateToken(context.Background(), &domain.Client{ID: uuid.New()}, time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestForeignKeyAndAlgorithmRejected(t *testing.T) {
	svc, _ := NewTokenService("secret")
	other, _ := NewTokenService("another-secret")

	token, err := other.GenerateToken(context.Background(), &domain.Client{ID: uuid.New()}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"client_id": uuid.NewString(),
		"iss":       issuer,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), unsigned)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestEmptySigningKey(t *testing.T) {
	_, err := NewTokenService("")
	assert.Error(t, err)
}
