package usecase

import (
	"context"
	"errors"
	"math"
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	dir := newFakeDirectory()

	loc, err := ResolveLocation(dir, "Московская область")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolvedLocation{City: "Подольск", Region: "Московская область"}, loc)

	loc, err = ResolveLocation(dir, "Екатеринбург")
	require.NoError(t, err)
	assert.Equal(t, "Свердловская область", loc.Region)

	_, err = ResolveLocation(dir, "Атлантида")
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func TestEstimatePrice(t *testing.T) {
	input := domain.ValuationInput{Location: "Москва", DealType: domain.DealSale, Rooms: 2, Area: 50}

	t.Run("no comparables returns the model price", func(t *testing.T) {
		model := &fakeModel{prediction: 10_000_000}
		uc := NewEstimatePriceUseCase(newFakeDirectory(), model, &fakeCollector{})

		got, err := uc.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 10_000_000.0, got.FinalPrice)
		assert.Equal(t, 10_000_000.0, got.ModelPrice)
		assert.Empty(t, got.Comparables)
		assert.Equal(t, "Москва", got.City)
	})

	t.Run("blends with comparables median", func(t *testing.T) {
		model := &fakeModel{prediction: 10_000_000}
		collector := &fakeCollector{comparables: []domain.Comparable{
			{Price: 12_000_000, AreaTotal: ptrFloat(50), Rooms: ptrInt(2)},
			{Price: 200_000_000, AreaTotal: ptrFloat(50), Rooms: ptrInt(2)}, // вне диапазона цен
		}}
		uc := NewEstimatePriceUseCase(newFakeDirectory(), model, collector)

		got, err := uc.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.InDelta(t, 11_600_000.0, got.FinalPrice, 1e-6)
		assert.Len(t, got.Comparables, 2)
		require.Len(t, collector.queries, 1)
		assert.Equal(t, domain.Query{City: "Москва", DealType: domain.DealSale, Rooms: 2, Area: 50}, collector.queries[0])
	})

	t.Run("rent prediction is exponentiated", func(t *testing.T) {
		model := &fakeModel{prediction: math.Log1p(40_000)}
		uc := NewEstimatePriceUseCase(newFakeDirectory(), model, &fakeCollector{})

		rent := input
		rent.DealType = domain.DealRent
		got, err := uc.Execute(context.Background(), rent)
		require.NoError(t, err)
		assert.InDelta(t, 40_000.0, got.ModelPrice, 1e-6)
		assert.Equal(t, "unknown", model.features["gas"])
	})

	t.Run("region resolves to its first city", func(t *testing.T) {
		collector := &fakeCollector{}
		uc := NewEstimatePriceUseCase(newFakeDirectory(), &fakeModel{prediction: 1}, collector)

		region := input
		region.Location = "Московская область"
		got, err := uc.Execute(context.Background(), region)
		require.NoError(t, err)
		assert.Equal(t, "Подольск", got.City)
		assert.Equal(t, "Московская область", got.Region)
	})

	t.Run("unknown location", func(t *testing.T) {
		collector := &fakeCollector{}
		uc := NewEstimatePriceUseCase(newFakeDirectory(), &fakeModel{}, collector)

		bad := input
		bad.Location = "Атлантида"
		_, err := uc.Execute(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrUnknownLocation)
		assert.Empty(t, collector.queries)
	})

	t.Run("model failure", func(t *testing.T) {
		uc := NewEstimatePriceUseCase(newFakeDirectory(), &fakeModel{err: errors.New("connection refused")}, &fakeCollector{})

		_, err := uc.Execute(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("invalid input", func(t *testing.T) {
		uc := NewEstimatePriceUseCase(newFakeDirectory(), &fakeModel{}, &fakeCollector{})

		bad := input
		bad.Area = 0
		_, err := uc.Execute(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestBuildModelFeatures(t *testing.T) {
	location := domain.ResolvedLocation{City: "Казань", Region: "Республика Татарстан"}

	t.Run("sale", func(t *testing.T) {
		in := domain.ValuationInput{DealType: domain.DealSale, Rooms: 0, Area: 30, Level: 3, Levels: 9}.WithDefaults()
		f := BuildModelFeatures(in, location)

		assert.Equal(t, "Республика Татарстан", f["region_name"])
		assert.Equal(t, "0", f["rooms"])
		assert.Equal(t, 60.0, f["room_size"])
		assert.InDelta(t, 3.0/9.0, f["floor_ratio"].(float64), 1e-9)
		assert.InDelta(t, 6.0, f["kitchen_area"].(float64), 1e-9)
		assert.Len(t, f, 10)
	})

	t.Run("rent", func(t *testing.T) {
		in := domain.ValuationInput{DealType: domain.DealRent, Rooms: 2, Area: 50, BuildingType: "3", ObjectType: "2"}.WithDefaults()
		f := BuildModelFeatures(in, location)

		assert.Equal(t, "brick", f["material"])
		assert.Equal(t, "new", f["type"])
		assert.Equal(t, true, f["is_new_building"])
		assert.Equal(t, 2000.0, f["build_year"])
		assert.Equal(t, "Казань", f["city"])
		assert.Equal(t, 2.0, f["rooms"])
		assert.InDelta(t, 0.2, f["floor_ratio"].(float64), 1e-9)
		assert.Len(t, f, 17)
	})

	t.Run("rent with unknown codes", func(t *testing.T) {
		in := domain.ValuationInput{DealType: domain.DealRent, Rooms: 1, Area: 35, BuildingType: "9", ObjectType: "7"}.WithDefaults()
		f := BuildModelFeatures(in, location)

		assert.Equal(t, "unknown", f["material"])
		assert.Equal(t, "secondary", f["type"])
		assert.Equal(t, 1990.0, f["build_year"])
	})
}
