package usecase

import (
	"context"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"sync"
)

type HealthUseCase struct {
	model     port.PriceModelPort
	locations port.LocationDirectoryPort
}

func NewHealthUseCase(model port.PriceModelPort, locations port.LocationDirectoryPort) *HealthUseCase {
	return &HealthUseCase{model: model, locations: locations}
}

// Execute опрашивает обе модели параллельно.
func (uc *HealthUseCase) Execute(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{RegionsCount: len(uc.locations.Regions())}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.SaleModelLoaded = uc.model.Loaded(ctx, domain.DealSale)
	}()
	go func() {
		defer wg.Done()
		report.RentModelLoaded = uc.model.Loaded(ctx, domain.DealRent)
	}()
	wg.Wait()

	return report
}
