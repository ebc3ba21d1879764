package contextkeys

import (
	"context"
	"price-estimator-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger возвращает контекст с логгером, обогащенным полями вызывающего слоя
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext никогда не возвращает nil: без логгера в контексте
// записи молча отбрасываются (фоновые задачи, тесты use case)
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Info(string, port.Fields)                 {}
func (discardLogger) Warn(string, port.Fields)                 {}
func (discardLogger) Error(string, error, port.Fields)         {}
func (discardLogger) Debug(string, port.Fields)                {}
func (d discardLogger) WithFields(port.Fields) port.LoggerPort { return d }
