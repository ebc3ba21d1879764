package usecase

import (
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationsList(t *testing.T) {
	uc := NewLocationsUseCase(newFakeDirectory())

	entries := uc.List()
	require.Len(t, entries, 7)
	assert.Equal(t, domain.LocationEntry{Type: domain.LocationTypeRegion, Name: "Москва", Value: "Москва"}, entries[0])
	assert.Equal(t, domain.LocationTypeCity, entries[1].Type)
	assert.Equal(t, "Москва", entries[1].Parent)
	assert.Equal(t, "Московская область", entries[3].Parent)
}

func TestLocationsSearch(t *testing.T) {
	uc := NewLocationsUseCase(newFakeDirectory())

	t.Run("prefix matches first, case insensitive", func(t *testing.T) {
		got := uc.Search("мос", 0)
		require.NotEmpty(t, got)
		for _, e := range got {
			assert.Contains(t, []string{"Москва", "Московская область"}, e.Name)
		}
	})

	t.Run("substring match", func(t *testing.T) {
		got := uc.Search("ОБЛАСТЬ", 10)
		require.Len(t, got, 2)
		assert.Equal(t, "Московская область", got[0].Name)
		assert.Equal(t, "Свердловская область", got[1].Name)
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, uc.Search("а", 1), 1)
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Empty(t, uc.Search("   ", 5))
	})
}
