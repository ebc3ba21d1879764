package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid jwt token")
)

const apiKeyBytes = 24

// Client - внешняя система, которая ставит заявки на оценку.
// Ключ API хранится только в виде bcrypt-хэша.
type Client struct {
	ID         uuid.UUID
	Name       string
	APIKeyHash string
	CreatedAt  time.Time
}

// ClientClaims - данные клиента, зашитые в токен доступа.
type ClientClaims struct {
	ClientID uuid.UUID
	Name     string
}

// NewClient создает клиента и возвращает открытый ключ API.
// Открытый ключ больше нигде не сохраняется.
func NewClient(name string) (*Client, string, error) {
	raw := make([]byte, apiKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	apiKey := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	return &Client{
		ID:         uuid.New(),
		Name:       name,
		APIKeyHash: string(hash),
		CreatedAt:  time.Now().UTC(),
	}, apiKey, nil
}

func (c *Client) CheckAPIKey(apiKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.APIKeyHash), []byte(apiKey)) == nil
}
