package rest

import (
	"net/http"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
)

type EstimateHandler struct {
	estimateUC usecases_port.EstimatePriceUseCase
	healthUC   usecases_port.HealthUseCase
}

func NewEstimateHandler(estimateUC usecases_port.EstimatePriceUseCase, healthUC usecases_port.HealthUseCase) *EstimateHandler {
	return &EstimateHandler{estimateUC: estimateUC, healthUC: healthUC}
}

// Predict обрабатывает POST /api/v1/predict
func (h *EstimateHandler) Predict(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "Predict"})

	input, err := decodeValuationRequest(w, r)
	if err != nil {
		handlerLogger.Warn("Invalid predict request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate, err := h.estimateUC.Execute(r.Context(), input)
	if err != nil {
		status, message := statusForError(err)
		handlerLogger.Error("Use case failed", err, port.Fields{"status_code": status})
		WriteJSONError(w, status, message)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPredictResponse(estimate, input.WithDefaults()))
}

// Health обрабатывает GET /api/v1/health
func (h *EstimateHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.healthUC.Execute(r.Context())

	resp := HealthResponse{
		Status:          "ok",
		SaleModelLoaded: report.SaleModelLoaded,
		RentModelLoaded: report.RentModelLoaded,
		RegionsCount:    report.RegionsCount,
		Message:         "Сервер работает",
	}
	if !report.Ready() {
		resp.Status = "degraded"
		resp.Message = "Часть зависимостей недоступна"
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
