package usecase

import "price-estimator-service/internal/core/domain"

// BlendPrice смешивает цену модели с медианой цен аналогов по весам профиля.
// Если аналогов не осталось, возвращается цена модели как есть.
func BlendPrice(modelPrice float64, comparablePrices []float64, profile domain.DealProfile) float64 {
	if len(comparablePrices) == 0 {
		return modelPrice
	}
	return profile.ModelWeight*modelPrice + profile.ComparablesWeight*Median(comparablePrices)
}
