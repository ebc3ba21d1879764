package usecase

import (
	"context"
	"fmt"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type SubmitValuationUseCase struct {
	locations port.LocationDirectoryPort
	storage   port.ValuationRepositoryPort
	queue     port.ValuationQueuePort
}

func NewSubmitValuationUseCase(
	locations port.LocationDirectoryPort,
	storage port.ValuationRepositoryPort,
	queue port.ValuationQueuePort,
) *SubmitValuationUseCase {
	return &SubmitValuationUseCase{locations: locations, storage: storage, queue: queue}
}

// Execute сохраняет заявку в статусе new и ставит ее в очередь.
// Неизвестная локация отклоняется сразу, до записи в БД.
func (uc *SubmitValuationUseCase) Execute(ctx context.Context, clientID uuid.UUID, input domain.ValuationInput) (uuid.UUID, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "SubmitValuation",
		"client_id": clientID.String(),
		"location":  input.Location,
		"deal_type": input.DealType.String(),
	})

	if err := input.Validate(); err != nil {
		return uuid.Nil, err
	}
	if _, err := ResolveLocation(uc.locations, input.Location); err != nil {
		return uuid.Nil, err
	}

	valuation := domain.Valuation{
		ID:        uuid.New(),
		ClientID:  clientID,
		Input:     input.WithDefaults(),
		Status:    domain.ValuationStatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.storage.CreateValuation(ctx, valuation); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return uuid.Nil, err
	}

	if err := uc.queue.Enqueue(ctx, valuation.ID); err != nil {
		ucLogger.Error("Failed to enqueue valuation", err, port.Fields{"valuation_id": valuation.ID.String()})
		result := domain.ValuationResult{Error: "enqueue failed", CreatedAt: time.Now().UTC()}
		if saveErr := uc.storage.SaveResult(ctx, valuation.ID, domain.ValuationStatusFailed, result); saveErr != nil {
			ucLogger.Error("Failed to mark valuation as failed", saveErr, nil)
		}
		return uuid.Nil, fmt.Errorf("enqueue valuation: %w", err)
	}

	ucLogger.Info("Valuation submitted", port.Fields{"valuation_id": valuation.ID.String()})
	return valuation.ID, nil
}
