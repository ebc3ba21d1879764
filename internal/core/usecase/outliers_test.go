package usecase

import (
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterOutliersIQR(t *testing.T) {
	t.Run("small samples are returned unchanged", func(t *testing.T) {
		assert.Equal(t, []float64{1, 1000}, FilterOutliersIQR([]float64{1, 1000}))
		assert.Empty(t, FilterOutliersIQR(nil))
	})

	t.Run("drops the far value and keeps order", func(t *testing.T) {
		got := FilterOutliersIQR([]float64{4, 100, 1, 3, 2})
		assert.Equal(t, []float64{4, 1, 3, 2}, got)
	})

	t.Run("interpolated quartiles", func(t *testing.T) {
		// q1 = 10.25, q3 = 12.75, iqr = 2.5 -> [6.5, 16.5]
		got := FilterOutliersIQR([]float64{10, 11, 12, 13, 30, 8})
		assert.Equal(t, []float64{10, 11, 12, 13, 8}, got)
	})

	t.Run("every output is within the fences", func(t *testing.T) {
		in := []float64{5, 7, 7, 8, 9, 9, 10, 40, -20}
		out := FilterOutliersIQR(in)
		assert.LessOrEqual(t, len(out), len(in))
		for _, v := range out {
			assert.Contains(t, in, v)
		}
		assert.NotContains(t, out, 40.0)
		assert.NotContains(t, out, -20.0)
	})
}

func TestFilterPriceBand(t *testing.T) {
	band := domain.ProfileFor(domain.DealSale).PriceBand
	got := FilterPriceBand([]float64{500_000, 1_000_000, 12_000_000, 50_000_000, 60_000_000}, band)
	assert.Equal(t, []float64{1_000_000, 12_000_000, 50_000_000}, got)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
}

func TestBlendPrice(t *testing.T) {
	sale := domain.ProfileFor(domain.DealSale)
	rent := domain.ProfileFor(domain.DealRent)

	assert.Equal(t, 10_000_000.0, BlendPrice(10_000_000, nil, sale))
	assert.InDelta(t, 11_600_000.0, BlendPrice(10_000_000, []float64{12_000_000}, sale), 1e-6)
	assert.InDelta(t, 0.3*40_000+0.7*50_000, BlendPrice(40_000, []float64{45_000, 55_000}, rent), 1e-6)
}
