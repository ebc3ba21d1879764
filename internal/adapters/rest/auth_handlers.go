package rest

import (
	"encoding/json"
	"net/http"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
	"time"

	"github.com/google/uuid"
)

type AuthHandler struct {
	issueUC  usecases_port.IssueTokenUseCase
	tokenTTL time.Duration
}

func NewAuthHandler(issueUC usecases_port.IssueTokenUseCase, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{issueUC: issueUC, tokenTTL: tokenTTL}
}

// IssueToken обрабатывает POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "IssueToken"})

	var req TokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		handlerLogger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil || req.APIKey == "" {
		WriteJSONError(w, http.StatusBadRequest, "client_id and api_key are required")
		return
	}

	token, err := h.issueUC.Execute(r.Context(), clientID, req.APIKey)
	if err != nil {
		status, message := statusForError(err)
		if status >= http.StatusInternalServerError {
			handlerLogger.Error("Use case failed", err, port.Fields{"status_code": status})
		}
		WriteJSONError(w, status, message)
		return
	}

	RespondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}
