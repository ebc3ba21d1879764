package constants

const ValuationsExchange = "valuations_exchange"

// Имена очередей
const (
	QueueValuationTasks = "valuation_tasks"
)

// Ключи маршрутизации
const (
	RoutingKeyValuationTasks = "valuations.process"
)

const (
	ValuationRetryExchange = QueueValuationTasks + "_retry_ex"
	ValuationRetryQueue    = QueueValuationTasks + "_retry_wait_30s"
	ValuationRetryTTL      = 30000 // мс
	ValuationMaxRetries    = 3

	FinalDLXExchange   = "valuation_tasks_final_dlx"
	FinalDLQ           = "valuation_tasks_final_dlq"
	FinalDLQRoutingKey = "valuations.dlq.key"
)

const TraceIDHeader = "x-trace-id"
