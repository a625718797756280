package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldType          = "transaction_type"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldUserID        = "user_id"
	FieldRuleID        = "rule_id"
	FieldProvider      = "provider"
	FieldMirrorRef     = "mirror_ref"
	FieldKey           = "key"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentStore    = "store"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentMirror   = "mirror"
	ComponentSuggest  = "suggest"
	ComponentPayments = "payments"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpAdd      = "add"
	OpCompute  = "compute"
	OpPick     = "pick"
	OpGenerate = "generate"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpAppend   = "append"
	OpCheckout = "checkout"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
