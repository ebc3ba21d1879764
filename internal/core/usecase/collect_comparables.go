package usecase

import (
	"context"
	"fmt"
	"math"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

const (
	firstPage = 1

	// Если на непервой странице меньше аналогов, дальше листать не имеет смысла
	diminishingReturnsThreshold = 5

	areaBandLowFactor  = 0.7
	areaBandHighFactor = 1.2
	areaBandFloor      = 20.0
)

// CollectComparablesUseCase листает выдачу площадки страница за страницей
// и собирает аналоги, пока не сработает одно из условий остановки.
type CollectComparablesUseCase struct {
	fetcher   port.PageFetcherPort
	extractor port.ListingExtractorPort
	locations port.LocationDirectoryPort
}

// NewCollectComparablesUseCase создает новый экземпляр CollectComparablesUseCase
func NewCollectComparablesUseCase(
	fetcher port.PageFetcherPort,
	extractor port.ListingExtractorPort,
	locations port.LocationDirectoryPort,
) *CollectComparablesUseCase {
	return &CollectComparablesUseCase{
		fetcher:   fetcher,
		extractor: extractor,
		locations: locations,
	}
}

// AreaBand - диапазон площадей, которым сужаем выдачу самой площадки.
func AreaBand(targetArea float64) (float64, float64) {
	return math.Max(targetArea*areaBandLowFactor, areaBandFloor), targetArea * areaBandHighFactor
}

// Execute возвращает все аналоги, собранные со страниц, в порядке обнаружения.
// Неизвестный город - не ошибка, а пустой результат без единого запроса.
func (uc *CollectComparablesUseCase) Execute(ctx context.Context, query domain.Query) []domain.Comparable {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "CollectComparables",
		"city":      query.City,
		"deal_type": query.DealType.String(),
	})

	locationID, ok := uc.locations.LocationID(query.City)
	if !ok {
		ucLogger.Info("No location id for city, skipping comparables", nil)
		return nil
	}

	profile := domain.ProfileFor(query.DealType)
	minArea, maxArea := AreaBand(query.Area)

	ucLogger.Info("Starting to collect comparables", port.Fields{
		"location_id": locationID,
		"rooms":       query.Rooms,
		"area":        query.Area,
		"max_pages":   profile.MaxPages,
	})

	var gathered []domain.Comparable
	for page := firstPage; page <= profile.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			ucLogger.Warn("Context cancelled, no more pages will be fetched", port.Fields{"error": err.Error()})
			break
		}

		pageLogger := ucLogger.WithFields(port.Fields{"page": page})
		criteria := domain.PageCriteria{
			DealType:   query.DealType,
			LocationID: locationID,
			Page:       page,
			Rooms:      query.Rooms,
			MinArea:    minArea,
			MaxArea:    maxArea,
		}

		comparables, err := uc.collectPage(contextkeys.ContextWithLogger(ctx, pageLogger), criteria)
		if err != nil {
			pageLogger.Warn("Page could not be processed, skipping", port.Fields{"error": err.Error()})
			continue
		}

		if len(comparables) == 0 {
			if page == firstPage {
				pageLogger.Info("No comparables on the first page, aborting", nil)
				return nil
			}
			pageLogger.Info("No comparables on page, stopping", nil)
			break
		}

		gathered = append(gathered, comparables...)
		pageLogger.Debug("Comparables found on page", port.Fields{"count": len(comparables)})

		if page > firstPage && len(comparables) < diminishingReturnsThreshold {
			pageLogger.Info("Few comparables on page, stopping", port.Fields{"count": len(comparables)})
			break
		}
	}

	ucLogger.Info("Finished collecting comparables", port.Fields{"total": len(gathered)})
	return gathered
}

// collectPage загружает и разбирает одну страницу. Непригодная страница
// считается пустой; ошибка возвращается, только если разбор не удался.
func (uc *CollectComparablesUseCase) collectPage(ctx context.Context, criteria domain.PageCriteria) ([]domain.Comparable, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	fetched := uc.fetcher.FetchPage(ctx, criteria)
	if fetched.Unusable {
		logger.Warn("Source unusable for page, treating as empty", port.Fields{"reason": fetched.Reason})
		return nil, nil
	}

	candidates, err := uc.extractor.ExtractListings(ctx, fetched.Body, criteria.DealType)
	if err != nil {
		return nil, fmt.Errorf("extract listings: %w", err)
	}

	comparables := make([]domain.Comparable, 0, len(candidates))
	for _, c := range candidates {
		if !c.Viable() {
			continue
		}
		c.DealType = criteria.DealType
		comparables = append(comparables, c)
	}
	return comparables, nil
}
