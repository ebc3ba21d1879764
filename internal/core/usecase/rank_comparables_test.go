package usecase

import (
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankComparables(t *testing.T) {
	query := domain.Query{City: "Москва", DealType: domain.DealSale, Rooms: 2, Area: 50}

	t.Run("filters by area tolerance and sorts by similarity", func(t *testing.T) {
		in := []domain.Comparable{
			{Price: 1, AreaTotal: ptrFloat(59), Rooms: ptrInt(2)},
			{Price: 2, AreaTotal: ptrFloat(61), Rooms: ptrInt(2)}, // > 20%
			{Price: 3, AreaTotal: ptrFloat(50), Rooms: ptrInt(3)},
			{Price: 4, AreaTotal: ptrFloat(51), Rooms: ptrInt(2)},
			{Price: 5, AreaTotal: nil, Rooms: ptrInt(2)},
		}

		got := RankComparables(query, in, "Москва")
		require.Len(t, got, 3)
		assert.Equal(t, []float64{4, 1, 3}, domain.Prices(got))
		for _, c := range got {
			assert.LessOrEqual(t, *c.AreaTotal, 60.0)
			assert.GreaterOrEqual(t, *c.AreaTotal, 40.0)
			assert.Equal(t, "Москва", c.City)
			assert.Equal(t, "Москва", c.Region)
		}
	})

	t.Run("ties keep discovery order", func(t *testing.T) {
		in := []domain.Comparable{
			{Price: 10, AreaTotal: ptrFloat(52), Rooms: ptrInt(2)},
			{Price: 20, AreaTotal: ptrFloat(48), Rooms: ptrInt(2)},
			{Price: 30, AreaTotal: ptrFloat(52), Rooms: ptrInt(2)},
		}
		got := RankComparables(query, in, "")
		assert.Equal(t, []float64{10, 20, 30}, domain.Prices(got))
	})

	t.Run("unknown rooms rank below known", func(t *testing.T) {
		in := []domain.Comparable{
			{Price: 1, AreaTotal: ptrFloat(50)},
			{Price: 2, AreaTotal: ptrFloat(55), Rooms: ptrInt(4)},
		}
		got := RankComparables(query, in, "")
		assert.Equal(t, []float64{2, 1}, domain.Prices(got))
	})

	t.Run("truncates to shortlist size", func(t *testing.T) {
		in := viableListings(12, 5_000_000)
		assert.Len(t, RankComparables(query, in, ""), domain.ProfileFor(domain.DealSale).ShortlistSize)

		rentQuery := query
		rentQuery.DealType = domain.DealRent
		assert.Len(t, RankComparables(rentQuery, in, ""), domain.ProfileFor(domain.DealRent).ShortlistSize)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := viableListings(2, 5_000_000)
		_ = RankComparables(query, in, "Москва")
		assert.Empty(t, in[0].City)
		assert.Empty(t, in[0].PriceFormatted)
	})

	t.Run("formats price with grouped digits", func(t *testing.T) {
		in := []domain.Comparable{{Price: 12_000_000, AreaTotal: ptrFloat(50), Rooms: ptrInt(2)}}
		got := RankComparables(query, in, "")
		require.Len(t, got, 1)
		assert.Equal(t, "12 000 000", got[0].PriceFormatted)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "45 000", FormatPrice(45_000))
	assert.Equal(t, "999", FormatPrice(999))
}
