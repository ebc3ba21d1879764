package rabbitmq_consumer

import (
	"fmt"
	"sync"

	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig описывает очередь, ее привязку и схему повторов.
//
// При включенных повторах сообщение, обработчик которого вернул ошибку,
// уходит через RetryExchange в очередь ожидания с TTL и возвращается
// в основной обменник. После MaxRetries попыток оно публикуется в
// FinalDLXExchange и подтверждается.
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName    string
	DurableQueue bool

	ExchangeName string
	ExchangeType string
	RoutingKey   string

	PrefetchCount int
	ConsumerTag   string

	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // мс
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.QueueName == "" {
		return fmt.Errorf("queue name is required")
	}
	if c.ExchangeName != "" && c.ExchangeType == "" {
		return fmt.Errorf("exchange type is required when exchange name is set")
	}
	if c.EnableRetryMechanism {
		if c.ExchangeName == "" {
			return fmt.Errorf("retries need a main exchange to return messages to")
		}
		if c.RetryExchange == "" || c.RetryQueue == "" || c.FinalDLXExchange == "" || c.FinalDLQ == "" {
			return fmt.Errorf("retry exchange, retry queue, final DLX and final DLQ are required for retries")
		}
		if c.RetryTTL <= 0 || c.MaxRetries <= 0 {
			return fmt.Errorf("retry TTL and max retries must be positive")
		}
	}
	return nil
}

// baseConsumer держит канал и объявляет всю топологию очереди.
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: %w", err)
	}

	c := &baseConsumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		logger:     logger,
	}

	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		c.finalDlxPublisher, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("consumer: failed to create final DLX publisher: %w", err)
		}
	}

	return c, nil
}

func (c *baseConsumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.ExchangeName != "" {
		c.logger.Debug("Declaring exchange", "name", c.config.ExchangeName, "type", c.config.ExchangeType)
		if err := c.channel.ExchangeDeclare(c.config.ExchangeName, c.config.ExchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeName, err)
		}
	}

	queueArgs := amqp.Table{}
	if c.config.EnableRetryMechanism {
		if err := c.setupRetryTopology(); err != nil {
			return err
		}
		// отклоненные сообщения основной очереди уходят на повтор
		queueArgs["x-dead-letter-exchange"] = c.config.RetryExchange
	}

	c.logger.Debug("Declaring queue", "name", c.config.QueueName, "durable", c.config.DurableQueue)
	if _, err := c.channel.QueueDeclare(c.config.QueueName, c.config.DurableQueue, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
	}

	if c.config.ExchangeName != "" {
		if err := c.channel.QueueBind(c.config.QueueName, c.config.RoutingKey, c.config.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.config.QueueName, c.config.ExchangeName, err)
		}
	}

	c.logger.Debug("Setup complete", "queue", c.config.QueueName)
	return nil
}

func (c *baseConsumer) setupRetryTopology() error {
	cfg := c.config

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	// очередь ожидания: по истечении TTL сообщение возвращается в основной обменник
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":             int32(cfg.RetryTTL),
		"x-dead-letter-exchange":    cfg.ExchangeName,
		"x-dead-letter-routing-key": cfg.RoutingKey,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}
	return nil
}

// deathCount - сколько раз сообщение отклонялось в очереди queueName (заголовок x-death).
func deathCount(headers amqp.Table, queueName string) int64 {
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue == queueName {
			if count, ok := tbl["count"].(int64); ok {
				return count
			}
		}
	}
	return 0
}

// Close дожидается активных обработчиков и закрывает канал.
func (c *baseConsumer) Close() error {
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.channel = nil
	}

	c.logger.Info("Consumer closed", "queue", c.config.QueueName)
	return firstErr
}
