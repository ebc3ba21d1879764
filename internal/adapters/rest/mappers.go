package rest

import (
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/usecase"
)

func withSuffix(price float64, suffix string) string {
	return usecase.FormatPrice(price) + " " + suffix
}

func toPredictResponse(estimate *domain.Estimate, input domain.ValuationInput) PredictResponse {
	profile := domain.ProfileFor(estimate.DealType)

	analogs := make([]AnalogResponse, 0, len(estimate.Comparables))
	for _, c := range estimate.Comparables {
		analogs = append(analogs, AnalogResponse{
			Price:          c.Price,
			PriceFormatted: withSuffix(c.Price, profile.PriceSuffix),
			Area:           c.AreaTotal,
			Rooms:          c.Rooms,
			Address:        c.Address,
			URL:            c.URL,
			FloorInfo:      c.FloorInfo,
		})
	}

	return PredictResponse{
		Success:          true,
		Price:            estimate.FinalPrice,
		PriceFormatted:   withSuffix(estimate.FinalPrice, profile.PriceSuffix),
		MLPrice:          estimate.ModelPrice,
		MLPriceFormatted: withSuffix(estimate.ModelPrice, profile.PriceSuffix),
		IsRent:           estimate.DealType == domain.DealRent,
		PriceSuffix:      profile.PriceSuffix,
		Region:           estimate.Region,
		City:             estimate.City,
		Area:             input.Area,
		Rooms:            input.Rooms,
		AnalogsCount:     len(analogs),
		Analogs:          analogs,
		Message:          "Прогноз выполнен",
	}
}

func toValuationResponse(v *domain.Valuation) ValuationResponse {
	resp := ValuationResponse{
		ValuationID: v.ID.String(),
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		Request:     toValuationRequest(v.Input),
	}

	if v.Result != nil {
		result := &ValuationResultResponse{
			Error:     v.Result.Error,
			CreatedAt: v.Result.CreatedAt,
		}
		if v.Result.Estimate != nil {
			predict := toPredictResponse(v.Result.Estimate, v.Input)
			result.Price = v.Result.Price
			result.PriceFormatted = withSuffix(float64(v.Result.Price), predict.PriceSuffix)
			result.Estimate = &predict
		}
		resp.Result = result
	}
	return resp
}
