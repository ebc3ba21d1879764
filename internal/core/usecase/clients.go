package usecase

import (
	"context"
	"errors"
	"fmt"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterClientUseCase struct {
	clients port.ClientRepositoryPort
}

func NewRegisterClientUseCase(clients port.ClientRepositoryPort) *RegisterClientUseCase {
	return &RegisterClientUseCase{clients: clients}
}

// Execute возвращает созданного клиента и его открытый ключ API.
func (uc *RegisterClientUseCase) Execute(ctx context.Context, name string) (*domain.Client, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "RegisterClient", "name": name})

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: client name is required", domain.ErrInvalidInput)
	}

	client, apiKey, err := domain.NewClient(name)
	if err != nil {
		ucLogger.Error("Failed to create client credentials", err, nil)
		return nil, "", fmt.Errorf("create client credentials: %w", err)
	}

	if err := uc.clients.CreateClient(ctx, client); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Client registered", port.Fields{"client_id": client.ID.String()})
	return client, apiKey, nil
}

type IssueTokenUseCase struct {
	clients  port.ClientRepositoryPort
	tokenSvc port.TokenServicePort
	tokenTTL time.Duration
}

func NewIssueTokenUseCase(clients port.ClientRepositoryPort, tokenSvc port.TokenServicePort, tokenTTL time.Duration) *IssueTokenUseCase {
	return &IssueTokenUseCase{clients: clients, tokenSvc: tokenSvc, tokenTTL: tokenTTL}
}

// Execute меняет пару id + ключ API на токен доступа.
// Неизвестный клиент и неверный ключ неразличимы для вызывающего.
func (uc *IssueTokenUseCase) Execute(ctx context.Context, clientID uuid.UUID, apiKey string) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "IssueToken", "client_id": clientID.String()})

	client, err := uc.clients.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			ucLogger.Warn("Token request for unknown client", nil)
			return "", domain.ErrInvalidCredentials
		}
		ucLogger.Error("Storage returned an error", err, nil)
		return "", err
	}

	if !client.CheckAPIKey(apiKey) {
		ucLogger.Warn("Token request with invalid api key", nil)
		return "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, client, uc.tokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token", err, nil)
		return "", err
	}
	return token, nil
}

type ValidateTokenUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateTokenUseCase(tokenSvc port.TokenServicePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenSvc: tokenSvc}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, token string) (*domain.ClientClaims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, token)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Token validation failed", port.Fields{"use_case": "ValidateToken", "error": err.Error()})
		return nil, err
	}
	return claims, nil
}
