package usecase

import (
	"context"
	"errors"
	"math"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
	"time"

	"github.com/google/uuid"
)

// ProcessValuationUseCase выполняет оценку для заявки из очереди.
type ProcessValuationUseCase struct {
	storage   port.ValuationRepositoryPort
	estimator usecases_port.EstimatePriceUseCase
}

func NewProcessValuationUseCase(storage port.ValuationRepositoryPort, estimator usecases_port.EstimatePriceUseCase) *ProcessValuationUseCase {
	return &ProcessValuationUseCase{storage: storage, estimator: estimator}
}

// Execute возвращает ошибку только для временных сбоев (модель, БД),
// чтобы сообщение ушло на повтор. Ошибки во входных данных фиксируются
// в заявке как failed и не повторяются.
func (uc *ProcessValuationUseCase) Execute(ctx context.Context, valuationID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ProcessValuation",
		"valuation_id": valuationID.String(),
	})

	valuation, err := uc.storage.GetValuation(ctx, valuationID)
	if err != nil {
		if errors.Is(err, domain.ErrValuationNotFound) {
			ucLogger.Warn("Valuation not found, dropping message", nil)
			return nil
		}
		return err
	}

	if valuation.Status == domain.ValuationStatusDone {
		ucLogger.Info("Valuation already done, skipping", nil)
		return nil
	}

	if err := uc.storage.UpdateStatus(ctx, valuationID, domain.ValuationStatusProcessing); err != nil {
		return err
	}

	estimate, err := uc.estimator.Execute(contextkeys.ContextWithLogger(ctx, ucLogger), valuation.Input)
	if err != nil {
		ucLogger.Error("Estimation failed", err, nil)
		result := domain.ValuationResult{Error: err.Error(), CreatedAt: time.Now().UTC()}
		if saveErr := uc.storage.SaveResult(ctx, valuationID, domain.ValuationStatusFailed, result); saveErr != nil {
			ucLogger.Error("Failed to save failed result", saveErr, nil)
			return saveErr
		}
		if errors.Is(err, domain.ErrUnknownLocation) || errors.Is(err, domain.ErrInvalidInput) {
			return nil
		}
		return err
	}

	result := domain.ValuationResult{
		Price:     int64(math.Round(estimate.FinalPrice)),
		Estimate:  estimate,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.storage.SaveResult(ctx, valuationID, domain.ValuationStatusDone, result); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	ucLogger.Info("Valuation processed", port.Fields{"price": result.Price})
	return nil
}
