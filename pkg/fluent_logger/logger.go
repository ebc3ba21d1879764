package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит параметры подключения к Fluent Bit.
type Config struct {
	Host      string
	Port      int
	TagPrefix string // общий префикс тегов, обычно имя сервиса

	// Не блокировать вызывающего при недоступном Fluent Bit
	Async bool
}

// NewClient создает клиента Fluent Bit. Соединение устанавливается лениво,
// поэтому успешный вызов не гарантирует доступность коллектора.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        cfg.Async,
		Timeout:      3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent logger: %w", err)
	}
	return client, nil
}
