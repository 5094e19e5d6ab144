package log

const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldAccountID  = "account_id"
	FieldTxID       = "transaction_id"
	FieldAmount     = "amount"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentReport    = "report"
	ComponentBudget    = "budget"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWebsocket = "websocket"
	ComponentAuth      = "auth"
)

const (
	OpCreateTransaction = "create_transaction"
	OpDeleteTransaction = "delete_transaction"
	OpCreateTransfer    = "create_transfer"
	OpBroadcast         = "broadcast"
	OpMigrate           = "migrate"
	OpStartup           = "startup"
	OpShutdown          = "shutdown"
)
