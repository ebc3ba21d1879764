package postgres

import (
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsRoundTripKeepsComparables(t *testing.T) {
	area, rooms := 48.5, 2
	estimate := &domain.Estimate{
		DealType:   domain.DealRent,
		City:       "Казань",
		Region:     "Республика Татарстан",
		FinalPrice: 41_500,
		ModelPrice: 40_000,
		Comparables: []domain.Comparable{
			{Price: 42_000, AreaTotal: &area, Rooms: &rooms, URL: "https://www.cian.ru/rent/flat/1/", PriceFormatted: "42 000"},
			{Price: 43_000},
		},
	}

	raw, err := marshalDetails(estimate)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"deal_type":"rent"`)

	got, err := unmarshalDetails(raw)
	require.NoError(t, err)
	require.Len(t, got.Comparables, 2)
	assert.Equal(t, domain.DealRent, got.DealType)
	assert.Equal(t, 48.5, *got.Comparables[0].AreaTotal)
	assert.Nil(t, got.Comparables[1].Rooms)
	assert.Equal(t, "Казань", got.Comparables[1].City)
}

func TestEmptyDetails(t *testing.T) {
	raw, err := marshalDetails(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	got, err := unmarshalDetails(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpMigrationsEmbedded(t *testing.T) {
	names, err := upMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_valuations.up.sql", names[0])

	sql, err := migrationsFS.ReadFile(names[0])
	require.NoError(t, err)
	assert.Contains(t, string(sql), "valuation_results")
}

func TestNullableUUID(t *testing.T) {
	assert.Nil(t, nullableUUID(uuid.Nil))

	id := uuid.New()
	require.NotNil(t, nullableUUID(id))
	assert.Equal(t, id, *nullableUUID(id))
}
