package usecases_port

import "price-estimator-service/internal/core/domain"

type LocationsUseCase interface {
	List() []domain.LocationEntry
	Search(query string, limit int) []domain.LocationEntry
}
