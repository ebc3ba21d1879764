package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"price-estimator-service/internal/core/domain"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

// ValuationRepository хранит заявки на оценку и их результаты.
type ValuationRepository struct {
	pool *pgxpool.Pool
}

func NewValuationRepository(pool *pgxpool.Pool) (*ValuationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ValuationRepository{pool: pool}, nil
}

func (r *ValuationRepository) CreateValuation(ctx context.Context, v domain.Valuation) error {
	payload, err := json.Marshal(v.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal valuation payload: %w", err)
	}

	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO valuation_requests (id, client_id, payload, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		v.ID, nullableUUID(v.ClientID), payload, v.Status, createdAt,
	)
	if err != nil {
		// клиент удален, а его токен еще действует
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("failed to insert valuation: %w", err)
	}
	return nil
}

func (r *ValuationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE valuation_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update valuation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrValuationNotFound
	}
	return nil
}

// SaveResult записывает результат (повторная запись заменяет прежний)
// и статус заявки в одной транзакции.
func (r *ValuationRepository) SaveResult(ctx context.Context, id uuid.UUID, status string, result domain.ValuationResult) error {
	details, err := marshalDetails(result.Estimate)
	if err != nil {
		return fmt.Errorf("failed to marshal valuation details: %w", err)
	}

	var price *int64
	if result.Estimate != nil {
		price = &result.Price
	}
	var errText *string
	if result.Error != "" {
		errText = &result.Error
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE valuation_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update valuation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrValuationNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO valuation_results (id, request_id, price, details, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (request_id) DO UPDATE
		SET price = EXCLUDED.price,
		    details = EXCLUDED.details,
		    error = EXCLUDED.error,
		    created_at = EXCLUDED.created_at`,
		uuid.New(), id, price, details, errText, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert valuation result: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit valuation result: %w", err)
	}
	return nil
}

func (r *ValuationRepository) GetValuation(ctx context.Context, id uuid.UUID) (*domain.Valuation, error) {
	var (
		v               domain.Valuation
		clientID        *uuid.UUID
		payload         []byte
		resultCreatedAt *time.Time
		price           *int64
		details         []byte
		errText         *string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT vr.id, vr.client_id, vr.payload, vr.status, vr.created_at,
		       res.price, res.details, res.error, res.created_at
		FROM valuation_requests vr
		LEFT JOIN valuation_results res ON res.request_id = vr.id
		WHERE vr.id = $1`, id,
	).Scan(&v.ID, &clientID, &payload, &v.Status, &v.CreatedAt, &price, &details, &errText, &resultCreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrValuationNotFound
		}
		return nil, fmt.Errorf("failed to get valuation: %w", err)
	}

	if clientID != nil {
		v.ClientID = *clientID
	}
	if err := json.Unmarshal(payload, &v.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal valuation payload: %w", err)
	}

	if resultCreatedAt != nil {
		estimate, err := unmarshalDetails(details)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal valuation details: %w", err)
		}
		result := &domain.ValuationResult{Estimate: estimate, CreatedAt: *resultCreatedAt}
		if price != nil {
			result.Price = *price
		}
		if errText != nil {
			result.Error = *errText
		}
		v.Result = result
	}
	return &v, nil
}

// nullableUUID - uuid.Nil пишется как NULL
func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
