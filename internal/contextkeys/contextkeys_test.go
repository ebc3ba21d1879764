package contextkeys

import (
	"context"
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromEmptyContextDiscards(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithFields(nil).Error("ignored", nil, nil)
	})
}

func TestClientClaimsRoundTrip(t *testing.T) {
	assert.Nil(t, ClientClaimsFromContext(context.Background()))

	claims := &domain.ClientClaims{ClientID: uuid.New(), Name: "partner"}
	ctx := ContextWithClientClaims(context.Background(), claims)
	assert.Same(t, claims, ClientClaimsFromContext(ctx))
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.Equal(t, "abc", TraceIDFromContext(ContextWithTraceID(context.Background(), "abc")))
}
