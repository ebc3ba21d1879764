package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"price-estimator-service/internal/constants"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ValuationQueueAdapter публикует id заявок на оценку для фоновых обработчиков.
type ValuationQueueAdapter struct {
	producer   publisher
	routingKey string
}

func NewValuationQueueAdapter(producer publisher, routingKey string) (*ValuationQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ValuationQueueAdapter{producer: producer, routingKey: routingKey}, nil
}

func (a *ValuationQueueAdapter) Enqueue(ctx context.Context, valuationID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":    "ValuationQueueAdapter",
		"routing_key":  a.routingKey,
		"valuation_id": valuationID.String(),
	})

	body, err := json.Marshal(ValuationTaskDTO{ValuationID: valuationID})
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal valuation task: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.TraceIDHeader] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish valuation task", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish valuation %s: %w", valuationID, err)
	}

	adapterLogger.Debug("Valuation task published", nil)
	return nil
}
