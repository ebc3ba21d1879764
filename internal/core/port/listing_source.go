package port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

// PageFetcherPort загружает одну страницу выдачи площадки.
// Реализация не возвращает ошибок: любой сбой сети или источника
// превращается в PageFetch{Unusable: true}.
type PageFetcherPort interface {
	FetchPage(ctx context.Context, criteria domain.PageCriteria) domain.PageFetch
}

// ListingExtractorPort превращает тело страницы в кандидатов-аналогов.
// Ошибка означает, что страницу целиком разобрать не удалось.
type ListingExtractorPort interface {
	ExtractListings(ctx context.Context, body []byte, dealType domain.DealType) ([]domain.Comparable, error)
}
