package rest

import (
	"net/http"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ValuationHandler struct {
	submitUC usecases_port.SubmitValuationUseCase
	getUC    usecases_port.GetValuationUseCase
}

func NewValuationHandler(submitUC usecases_port.SubmitValuationUseCase, getUC usecases_port.GetValuationUseCase) *ValuationHandler {
	return &ValuationHandler{submitUC: submitUC, getUC: getUC}
}

// Submit обрабатывает POST /api/v1/valuations
func (h *ValuationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "SubmitValuation"})

	input, err := decodeValuationRequest(w, r)
	if err != nil {
		handlerLogger.Warn("Invalid valuation request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.submitUC.Execute(r.Context(), clientIDFromRequest(r), input)
	if err != nil {
		status, message := statusForError(err)
		handlerLogger.Error("Use case failed", err, port.Fields{"status_code": status})
		WriteJSONError(w, status, message)
		return
	}

	RespondWithJSON(w, http.StatusAccepted, SubmitValuationResponse{
		ValuationID: id.String(),
		Status:      domain.ValuationStatusNew,
	})
}

// Get обрабатывает GET /api/v1/valuations/{valuationID}
func (h *ValuationHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "valuationID"))
	if err != nil {
		logger.Warn("Invalid valuation ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid valuation ID format")
		return
	}

	valuation, err := h.getUC.Execute(r.Context(), clientIDFromRequest(r), id)
	if err != nil {
		status, message := statusForError(err)
		WriteJSONError(w, status, message)
		return
	}

	RespondWithJSON(w, http.StatusOK, toValuationResponse(valuation))
}

func clientIDFromRequest(r *http.Request) uuid.UUID {
	if claims := contextkeys.ClientClaimsFromContext(r.Context()); claims != nil {
		return claims.ClientID
	}
	return uuid.Nil
}
