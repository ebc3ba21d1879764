package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"price-estimator-service/internal/contracts"
	"price-estimator-service/internal/core/domain"
	"strconv"
)

const maxRequestBody = 64 << 10

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// decodeValuationRequest читает тело, проверяет его по схеме и переводит в доменную модель.
func decodeValuationRequest(w http.ResponseWriter, r *http.Request) (domain.ValuationInput, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return domain.ValuationInput{}, fmt.Errorf("%w: read body: %w", domain.ErrInvalidInput, err)
	}
	if err := contracts.Validate(contracts.ValuationRequestV1, body); err != nil {
		return domain.ValuationInput{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var req ValuationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.ValuationInput{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	input, err := req.toDomain()
	if err != nil {
		return domain.ValuationInput{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return input, nil
}

// statusForError сопоставляет доменные ошибки с HTTP-статусом и текстом ответа.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnknownLocation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrValuationNotFound):
		return http.StatusNotFound, "Valuation not found"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrClientNotFound):
		return http.StatusUnauthorized, "Invalid client credentials"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "Price model is unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func GetLimitOrDefault(r *http.Request, def int) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def, nil
	}
	return strconv.Atoi(limitStr)
}
