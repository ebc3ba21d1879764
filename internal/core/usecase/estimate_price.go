package usecase

import (
	"context"
	"fmt"
	"math"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
)

// EstimatePriceUseCase считает итоговую цену: предсказание модели,
// смешанное с медианой очищенных от выбросов аналогов.
type EstimatePriceUseCase struct {
	locations port.LocationDirectoryPort
	model     port.PriceModelPort
	collector usecases_port.CollectComparablesUseCase
}

// NewEstimatePriceUseCase создает новый экземпляр EstimatePriceUseCase
func NewEstimatePriceUseCase(
	locations port.LocationDirectoryPort,
	model port.PriceModelPort,
	collector usecases_port.CollectComparablesUseCase,
) *EstimatePriceUseCase {
	return &EstimatePriceUseCase{
		locations: locations,
		model:     model,
		collector: collector,
	}
}

// ResolveLocation приводит введенную локацию к паре город/регион.
// Для региона берется его первый город.
func ResolveLocation(locations port.LocationDirectoryPort, name string) (domain.ResolvedLocation, error) {
	if locations.IsRegion(name) {
		cities := locations.CitiesOf(name)
		if len(cities) == 0 {
			return domain.ResolvedLocation{}, fmt.Errorf("%w: region %q has no cities", domain.ErrUnknownLocation, name)
		}
		region := name
		if canonical, ok := locations.RegionOf(cities[0]); ok {
			region = canonical
		}
		return domain.ResolvedLocation{City: cities[0], Region: region}, nil
	}

	if region, ok := locations.RegionOf(name); ok {
		return domain.ResolvedLocation{City: name, Region: region}, nil
	}
	return domain.ResolvedLocation{}, fmt.Errorf("%w: %q", domain.ErrUnknownLocation, name)
}

func (uc *EstimatePriceUseCase) Execute(ctx context.Context, input domain.ValuationInput) (*domain.Estimate, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.WithDefaults()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "EstimatePrice",
		"location":  input.Location,
		"deal_type": input.DealType.String(),
	})

	location, err := ResolveLocation(uc.locations, input.Location)
	if err != nil {
		return nil, err
	}

	profile := domain.ProfileFor(input.DealType)
	features := BuildModelFeatures(input, location)

	raw, err := uc.model.Predict(ctx, input.DealType, features)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	modelPrice := raw
	if profile.ModelLogTarget {
		modelPrice = math.Expm1(raw)
	}

	query := domain.Query{
		City:     location.City,
		DealType: input.DealType,
		Rooms:    input.Rooms,
		Area:     input.Area,
	}

	gathered := uc.collector.Execute(contextkeys.ContextWithLogger(ctx, ucLogger), query)
	shortlist := RankComparables(query, gathered, location.Region)

	prices := FilterOutliersIQR(FilterPriceBand(domain.Prices(shortlist), profile.PriceBand))
	finalPrice := BlendPrice(modelPrice, prices, profile)

	ucLogger.Info("Price estimated", port.Fields{
		"city":           location.City,
		"model_price":    modelPrice,
		"final_price":    finalPrice,
		"comparables":    len(shortlist),
		"blended_prices": len(prices),
	})

	return &domain.Estimate{
		DealType:    input.DealType,
		City:        location.City,
		Region:      location.Region,
		FinalPrice:  finalPrice,
		ModelPrice:  modelPrice,
		Comparables: shortlist,
	}, nil
}
