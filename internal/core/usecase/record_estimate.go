package usecase

import (
	"context"
	"math"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
	"time"

	"github.com/google/uuid"
)

// RecordedEstimateUseCase - синхронная оценка, результат которой
// дополнительно пишется в историю. Сбой записи не влияет на ответ.
type RecordedEstimateUseCase struct {
	estimator usecases_port.EstimatePriceUseCase
	storage   port.ValuationRepositoryPort
}

func NewRecordedEstimateUseCase(estimator usecases_port.EstimatePriceUseCase, storage port.ValuationRepositoryPort) *RecordedEstimateUseCase {
	return &RecordedEstimateUseCase{estimator: estimator, storage: storage}
}

func (uc *RecordedEstimateUseCase) Execute(ctx context.Context, input domain.ValuationInput) (*domain.Estimate, error) {
	estimate, err := uc.estimator.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "RecordedEstimate"})

	now := time.Now().UTC()
	valuation := domain.Valuation{
		ID:        uuid.New(),
		Input:     input.WithDefaults(),
		Status:    domain.ValuationStatusDone,
		CreatedAt: now,
	}
	if err := uc.storage.CreateValuation(ctx, valuation); err != nil {
		logger.Warn("Failed to record valuation", port.Fields{"error": err.Error()})
		return estimate, nil
	}

	result := domain.ValuationResult{
		Price:     int64(math.Round(estimate.FinalPrice)),
		Estimate:  estimate,
		CreatedAt: now,
	}
	if err := uc.storage.SaveResult(ctx, valuation.ID, domain.ValuationStatusDone, result); err != nil {
		logger.Warn("Failed to record valuation result", port.Fields{"error": err.Error(), "valuation_id": valuation.ID.String()})
	}
	return estimate, nil
}
