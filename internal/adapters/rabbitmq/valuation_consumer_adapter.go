package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"price-estimator-service/internal/constants"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/contracts"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/port/usecases_port"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ValuationConsumerAdapter слушает очередь заявок и запускает их обработку
// в ограниченном пуле обработчиков.
type ValuationConsumerAdapter struct {
	consumer *rabbitmq_consumer.WorkerConsumer
	useCase  usecases_port.ProcessValuationUseCase
	logger   port.LoggerPort
}

func NewValuationConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	workers int,
	useCase usecases_port.ProcessValuationUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ValuationConsumerAdapter, error) {
	adapter := &ValuationConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_worker_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewWorkerConsumer(consumerCfg, adapter.messageHandler, workers, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for valuations: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *ValuationConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers[constants.TraceIDHeader].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	if err := contracts.Validate(contracts.ValuationTaskV1, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation", err, nil)
		return err
	}

	var task ValuationTaskDTO
	if err := json.Unmarshal(d.Body, &task); err != nil {
		msgLogger.Error("Error unmarshalling valuation task", err, nil)
		return fmt.Errorf("unmarshal DTO error: %w", err)
	}
	if task.ValuationID == uuid.Nil {
		msgLogger.Warn("Valuation task without id, dropping", nil)
		return nil
	}

	taskLogger := msgLogger.WithFields(port.Fields{"valuation_id": task.ValuationID.String()})
	ctx = contextkeys.ContextWithLogger(ctx, taskLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	taskLogger.Info("Received valuation task", nil)

	if err := a.useCase.Execute(ctx, task.ValuationID); err != nil {
		taskLogger.Error("Valuation failed with a transient error, message goes to retry", err, nil)
		return err
	}

	taskLogger.Info("Valuation task processed", nil)
	return nil
}

// Start реализует EventListenerPort
func (a *ValuationConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ValuationConsumerAdapter) Close() error {
	return a.consumer.Close()
}
