package rabbitmq_common

import (
	"fmt"
	"strings"
)

// Config - общая часть конфигурации издателей и потребителей
type Config struct {
	URL string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	if !strings.HasPrefix(c.URL, "amqp://") && !strings.HasPrefix(c.URL, "amqps://") {
		return fmt.Errorf("rabbitmq: URL must start with amqp:// or amqps://")
	}
	return nil
}
