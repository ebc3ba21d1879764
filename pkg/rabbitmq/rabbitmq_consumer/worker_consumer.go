package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ошибка отправляет сообщение
// на повтор (или в DLQ, если повторы выключены или исчерпаны).
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// WorkerConsumer раздает сообщения ограниченному пулу горутин.
type WorkerConsumer struct {
	base       *baseConsumer
	handler    MessageHandler
	maxWorkers int
}

// NewWorkerConsumer создает потребителя; maxWorkers <= 0 означает один обработчик.
func NewWorkerConsumer(cfg ConsumerConfig, handler MessageHandler, maxWorkers int, connManager *rabbitmq_common.ConnectionManager) (*WorkerConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("worker consumer: message handler is required")
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if cfg.PrefetchCount < maxWorkers {
		cfg.PrefetchCount = maxWorkers
	}

	base, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("worker consumer: %w", err)
	}

	return &WorkerConsumer{base: base, handler: handler, maxWorkers: maxWorkers}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения брокером.
func (c *WorkerConsumer) StartConsuming(ctx context.Context) error {
	b := c.base
	if b.channel == nil || b.connection == nil || b.connection.IsClosed() {
		return fmt.Errorf("worker consumer: not connected")
	}

	msgs, err := b.channel.Consume(b.config.QueueName, b.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker consumer: failed to consume from '%s': %w", b.config.QueueName, err)
	}

	b.logger.Info("Waiting for messages", "queue", b.config.QueueName, "workers", c.maxWorkers)

	notifyClose := b.connection.NotifyClose(make(chan *amqp.Error, 1))
	slots := make(chan struct{}, c.maxWorkers)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, consumer stops taking messages", "queue", b.config.QueueName)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return nil
			}
			b.logger.Error(amqpErr, "Connection closed by broker", "queue", b.config.QueueName)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				b.logger.Warn("Deliveries channel closed", "queue", b.config.QueueName)
				return nil
			}

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				// сообщение вернется в очередь при закрытии канала
				return nil
			}

			b.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer b.wg.Done()
				defer func() { <-slots }()
				c.handle(ctx, delivery)
			}(d)
		}
	}
}

func (c *WorkerConsumer) handle(ctx context.Context, d amqp.Delivery) {
	b := c.base

	processErr := c.handler(ctx, d)
	if processErr == nil {
		_ = d.Ack(false)
		return
	}

	b.logger.Error(processErr, "Handler error", "delivery_tag", d.DeliveryTag)

	if !b.config.EnableRetryMechanism {
		_ = d.Nack(false, false)
		return
	}

	deaths := deathCount(d.Headers, b.config.QueueName)
	if deaths < int64(b.config.MaxRetries) {
		b.logger.Info("Retrying message", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)
		return
	}

	b.logger.Warn("Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag)
	err := b.finalDlxPublisher.Publish(context.Background(), b.config.FinalDLQRoutingKey, amqp.Publishing{
		ContentType:  d.ContentType,
		Body:         d.Body,
		Headers:      d.Headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		b.logger.Error(err, "Failed to publish to final DLX, message goes back to retry loop")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *WorkerConsumer) Close() error {
	return c.base.Close()
}
