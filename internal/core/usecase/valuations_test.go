package usecase

import (
	"context"
	"errors"
	"price-estimator-service/internal/core/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEstimator struct {
	estimate *domain.Estimate
	err      error
}

func (s *stubEstimator) Execute(context.Context, domain.ValuationInput) (*domain.Estimate, error) {
	return s.estimate, s.err
}

var testClientID = uuid.MustParse("4b1f3f0e-8f5c-4f0a-9d6e-2a7c1b9e5d10")

func seedValuation(t *testing.T, repo *fakeRepository, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.CreateValuation(context.Background(), domain.Valuation{
		ID:        id,
		ClientID:  testClientID,
		Input:     domain.ValuationInput{Location: "Москва", Rooms: 1, Area: 40},
		Status:    status,
		CreatedAt: time.Now(),
	}))
	return id
}

func TestSubmitValuation(t *testing.T) {
	input := domain.ValuationInput{Location: "Москва", DealType: domain.DealRent, Rooms: 1, Area: 40}

	t.Run("stores and enqueues", func(t *testing.T) {
		repo, queue := newFakeRepository(), &fakeQueue{}
		uc := NewSubmitValuationUseCase(newFakeDirectory(), repo, queue)

		id, err := uc.Execute(context.Background(), testClientID, input)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{id}, queue.ids)

		stored, err := repo.GetValuation(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.ValuationStatusNew, stored.Status)
		assert.Equal(t, testClientID, stored.ClientID)
		assert.Equal(t, domain.DealRent, stored.Input.DealType)
		require.NotNil(t, stored.Input.KitchenArea)
		assert.InDelta(t, 8.0, *stored.Input.KitchenArea, 1e-9)
	})

	t.Run("unknown location is rejected before storing", func(t *testing.T) {
		repo, queue := newFakeRepository(), &fakeQueue{}
		uc := NewSubmitValuationUseCase(newFakeDirectory(), repo, queue)

		bad := input
		bad.Location = "Атлантида"
		_, err := uc.Execute(context.Background(), testClientID, bad)
		assert.ErrorIs(t, err, domain.ErrUnknownLocation)
		assert.Empty(t, repo.valuations)
		assert.Empty(t, queue.ids)
	})

	t.Run("enqueue failure marks valuation failed", func(t *testing.T) {
		repo, queue := newFakeRepository(), &fakeQueue{err: errors.New("channel closed")}
		uc := NewSubmitValuationUseCase(newFakeDirectory(), repo, queue)

		_, err := uc.Execute(context.Background(), testClientID, input)
		require.Error(t, err)
		require.Len(t, repo.valuations, 1)
		for _, v := range repo.valuations {
			assert.Equal(t, domain.ValuationStatusFailed, v.Status)
		}
	})
}

func TestProcessValuation(t *testing.T) {
	t.Run("done", func(t *testing.T) {
		repo := newFakeRepository()
		id := seedValuation(t, repo, domain.ValuationStatusNew)
		uc := NewProcessValuationUseCase(repo, &stubEstimator{estimate: &domain.Estimate{FinalPrice: 45_000.6}})

		require.NoError(t, uc.Execute(context.Background(), id))
		assert.Equal(t, []string{domain.ValuationStatusProcessing, domain.ValuationStatusDone}, repo.statuses)

		stored, _ := repo.GetValuation(context.Background(), id)
		require.NotNil(t, stored.Result)
		assert.Equal(t, int64(45_001), stored.Result.Price)
	})

	t.Run("unknown location fails without retry", func(t *testing.T) {
		repo := newFakeRepository()
		id := seedValuation(t, repo, domain.ValuationStatusNew)
		uc := NewProcessValuationUseCase(repo, &stubEstimator{err: domain.ErrUnknownLocation})

		require.NoError(t, uc.Execute(context.Background(), id))
		stored, _ := repo.GetValuation(context.Background(), id)
		assert.Equal(t, domain.ValuationStatusFailed, stored.Status)
		assert.Equal(t, domain.ErrUnknownLocation.Error(), stored.Result.Error)
	})

	t.Run("model failure is returned for retry", func(t *testing.T) {
		repo := newFakeRepository()
		id := seedValuation(t, repo, domain.ValuationStatusNew)
		uc := NewProcessValuationUseCase(repo, &stubEstimator{err: domain.ErrModelUnavailable})

		err := uc.Execute(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
		stored, _ := repo.GetValuation(context.Background(), id)
		assert.Equal(t, domain.ValuationStatusFailed, stored.Status)
	})

	t.Run("missing valuation is dropped", func(t *testing.T) {
		uc := NewProcessValuationUseCase(newFakeRepository(), &stubEstimator{})
		assert.NoError(t, uc.Execute(context.Background(), uuid.New()))
	})

	t.Run("already done is skipped", func(t *testing.T) {
		repo := newFakeRepository()
		id := seedValuation(t, repo, domain.ValuationStatusDone)
		uc := NewProcessValuationUseCase(repo, &stubEstimator{err: errors.New("must not be called")})

		require.NoError(t, uc.Execute(context.Background(), id))
		assert.Empty(t, repo.statuses)
	})
}

func TestGetValuation(t *testing.T) {
	repo := newFakeRepository()
	id := seedValuation(t, repo, domain.ValuationStatusProcessing)
	uc := NewGetValuationUseCase(repo)

	got, err := uc.Execute(context.Background(), testClientID, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ValuationStatusProcessing, got.Status)

	_, err = uc.Execute(context.Background(), testClientID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrValuationNotFound)

	_, err = uc.Execute(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, domain.ErrValuationNotFound)
}

func TestRecordedEstimate(t *testing.T) {
	input := domain.ValuationInput{Location: "Москва", Rooms: 1, Area: 40}

	t.Run("records the result", func(t *testing.T) {
		repo := newFakeRepository()
		uc := NewRecordedEstimateUseCase(&stubEstimator{estimate: &domain.Estimate{FinalPrice: 7_000_000}}, repo)

		got, err := uc.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 7_000_000.0, got.FinalPrice)
		require.Len(t, repo.valuations, 1)
		for _, v := range repo.valuations {
			assert.Equal(t, int64(7_000_000), v.Result.Price)
		}
	})

	t.Run("storage failure does not affect the answer", func(t *testing.T) {
		repo := newFakeRepository()
		repo.createErr = errors.New("db down")
		uc := NewRecordedEstimateUseCase(&stubEstimator{estimate: &domain.Estimate{FinalPrice: 1}}, repo)

		got, err := uc.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.FinalPrice)
	})

	t.Run("estimation error is returned", func(t *testing.T) {
		repo := newFakeRepository()
		uc := NewRecordedEstimateUseCase(&stubEstimator{err: domain.ErrUnknownLocation}, repo)

		_, err := uc.Execute(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrUnknownLocation)
		assert.Empty(t, repo.valuations)
	})
}
