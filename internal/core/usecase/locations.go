package usecase

import (
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const defaultSearchLimit = 20

type LocationsUseCase struct {
	locations port.LocationDirectoryPort
}

func NewLocationsUseCase(locations port.LocationDirectoryPort) *LocationsUseCase {
	return &LocationsUseCase{locations: locations}
}

// List возвращает регионы, за каждым из которых следуют его города.
func (uc *LocationsUseCase) List() []domain.LocationEntry {
	var entries []domain.LocationEntry
	for _, region := range uc.locations.Regions() {
		entries = append(entries, domain.LocationEntry{
			Type:  domain.LocationTypeRegion,
			Name:  region,
			Value: region,
		})
		for _, city := range uc.locations.CitiesOf(region) {
			entries = append(entries, domain.LocationEntry{
				Type:   domain.LocationTypeCity,
				Name:   city,
				Value:  city,
				Region: region,
				Parent: region,
			})
		}
	}
	return entries
}

// Search ищет подстроку без учета регистра. Совпадения с начала названия
// идут первыми, внутри группы - по алфавиту.
func (uc *LocationsUseCase) Search(query string, limit int) []domain.LocationEntry {
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	if needle == "" {
		return []domain.LocationEntry{}
	}

	type hit struct {
		entry  domain.LocationEntry
		folded string
		prefix bool
	}

	var hits []hit
	for _, entry := range uc.List() {
		name := folder.String(entry.Name)
		idx := strings.Index(name, needle)
		if idx < 0 {
			continue
		}
		hits = append(hits, hit{entry: entry, folded: name, prefix: idx == 0})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].prefix != hits[j].prefix {
			return hits[i].prefix
		}
		return hits[i].folded < hits[j].folded
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	result := make([]domain.LocationEntry, 0, len(hits))
	for _, h := range hits {
		result = append(result, h.entry)
	}
	return result
}
