package port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

// PriceModelPort - внешняя модель оценки стоимости.
type PriceModelPort interface {
	// Predict возвращает сырое предсказание модели для типа сделки.
	Predict(ctx context.Context, dealType domain.DealType, features domain.ModelFeatures) (float64, error)

	// Loaded сообщает, загружена ли модель для типа сделки.
	Loaded(ctx context.Context, dealType domain.DealType) bool
}
