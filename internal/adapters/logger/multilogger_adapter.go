package logger_adapter

import (
	"fmt"
	"price-estimator-service/internal/core/port"
)

// MultiLoggerAdapter дублирует записи в stdout и Fluent Bit.
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
}

// NewMultiloggerAdapter пропускает nil: отключенный Fluent Bit можно передавать как есть.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			sinks = append(sinks, l)
		}
	}
	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	case 1:
		return sinks[0], nil
	}
	return &MultiLoggerAdapter{sinks: sinks}, nil
}

func (m *MultiLoggerAdapter) each(write func(port.LoggerPort)) {
	for _, sink := range m.sinks {
		write(sink)
	}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := make([]port.LoggerPort, 0, len(m.sinks))
	m.each(func(l port.LoggerPort) { enriched = append(enriched, l.WithFields(fields)) })
	return &MultiLoggerAdapter{sinks: enriched}
}
