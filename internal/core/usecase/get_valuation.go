package usecase

import (
	"context"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/google/uuid"
)

type GetValuationUseCase struct {
	storage port.ValuationRepositoryPort
}

func NewGetValuationUseCase(storage port.ValuationRepositoryPort) *GetValuationUseCase {
	return &GetValuationUseCase{storage: storage}
}

// Execute для чужой заявки возвращает ErrValuationNotFound, а не отказ в доступе.
func (uc *GetValuationUseCase) Execute(ctx context.Context, clientID, valuationID uuid.UUID) (*domain.Valuation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "GetValuation",
		"client_id":    clientID.String(),
		"valuation_id": valuationID.String(),
	})

	valuation, err := uc.storage.GetValuation(ctx, valuationID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if valuation.ClientID != clientID {
		ucLogger.Warn("Valuation belongs to another client", nil)
		return nil, domain.ErrValuationNotFound
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"status": valuation.Status})
	return valuation, nil
}
