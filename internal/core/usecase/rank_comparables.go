package usecase

import (
	"math"
	"price-estimator-service/internal/core/domain"
	"sort"
)

const (
	// допуск по площади относительно целевой
	areaTolerance = 0.2

	unknownAreaPenalty  = 1000.0
	unknownRoomsPenalty = 500.0
	roomStep            = 10.0
)

// RankComparables фильтрует аналоги по площади (±20%), сортирует по похожести
// на запрос (устойчиво, при равенстве сохраняется порядок обнаружения),
// обрезает до размера профиля и дополняет копии городом, регионом и
// отформатированной ценой.
func RankComparables(query domain.Query, comparables []domain.Comparable, region string) []domain.Comparable {
	profile := domain.ProfileFor(query.DealType)
	tolerance := query.Area * areaTolerance

	type scored struct {
		comparable domain.Comparable
		score      float64
	}

	candidates := make([]scored, 0, len(comparables))
	for _, c := range comparables {
		if c.AreaTotal == nil || math.Abs(*c.AreaTotal-query.Area) > tolerance {
			continue
		}
		candidates = append(candidates, scored{comparable: c, score: similarityScore(c, query, profile)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	if len(candidates) > profile.ShortlistSize {
		candidates = candidates[:profile.ShortlistSize]
	}

	shortlist := make([]domain.Comparable, 0, len(candidates))
	for _, s := range candidates {
		c := s.comparable
		c.City = query.City
		c.Region = region
		c.PriceFormatted = FormatPrice(c.Price)
		shortlist = append(shortlist, c)
	}
	return shortlist
}

// similarityScore - чем меньше, тем ближе аналог к запросу.
func similarityScore(c domain.Comparable, query domain.Query, profile domain.DealProfile) float64 {
	areaDiff := unknownAreaPenalty
	if c.AreaTotal != nil {
		areaDiff = math.Abs(*c.AreaTotal-query.Area) * profile.AreaWeight
	}

	roomsDiff := unknownRoomsPenalty
	if c.Rooms != nil {
		roomsDiff = math.Abs(float64(*c.Rooms-query.Rooms)) * roomStep * profile.RoomsWeight
	}

	return areaDiff + roomsDiff
}
