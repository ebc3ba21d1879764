package postgres

import (
	"context"
	"errors"
	"fmt"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) (*ClientRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ClientRepository{pool: pool}, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *domain.Client) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients (id, name, api_key_hash, created_at) VALUES ($1, $2, $3, $4)`,
		client.ID, client.Name, client.APIKeyHash, client.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, api_key_hash, created_at FROM clients WHERE id = $1`, id,
	).Scan(&client.ID, &client.Name, &client.APIKeyHash, &client.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}
