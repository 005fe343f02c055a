package log

// Common field names for structured logging.
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

	FieldQuoteID   = "quote_id"
	FieldPrincipal = "principal"
	FieldRate      = "annual_rate_percent"
	FieldTermYears = "term_years"
	FieldBalloon   = "balloon"
	FieldPayment   = "payment"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentQuote   = "quote"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentLedger  = "ledger"
	ComponentCache   = "cache"
)

// Operations defines standard operation names.
const (
	OpCompute  = "compute"
	OpRecord   = "record"
	OpList     = "list"
	OpSync     = "sync"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
