package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldBalance     = "balance"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldWorksheet   = "worksheet"
	FieldTxID        = "transaction_id"
)

// Components defines standard component names.
const (
	ComponentBot        = "bot"
	ComponentHTTP       = "http"
	ComponentTelegram   = "telegram"
	ComponentParser     = "parser"
	ComponentClassifier = "classifier"
	ComponentLedger     = "ledger"
	ComponentTracker    = "tracker"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentCache      = "cache"
	ComponentConfig     = "config"
)

// Operations defines standard operation names.
const (
	OpRecord   = "record"
	OpTopup    = "topup"
	OpSetSaldo = "set_balance"
	OpSummary  = "summary"
	OpClassify = "classify"
	OpParse    = "parse"
	OpAppend   = "append"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
