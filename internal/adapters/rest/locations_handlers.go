package rest

import (
	"net/http"
	"price-estimator-service/internal/core/port/usecases_port"
	"strings"
)

type LocationsHandler struct {
	locationsUC usecases_port.LocationsUseCase
}

func NewLocationsHandler(locationsUC usecases_port.LocationsUseCase) *LocationsHandler {
	return &LocationsHandler{locationsUC: locationsUC}
}

// List обрабатывает GET /api/v1/locations
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.locationsUC.List())
}

// Search обрабатывает GET /api/v1/search-locations?q=&limit=
func (h *LocationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := GetLimitOrDefault(r, 0)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	RespondWithJSON(w, http.StatusOK, h.locationsUC.Search(query, limit))
}
