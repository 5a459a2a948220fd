package log

// Common field names for structured logging.
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
	FieldKey           = "key"
	FieldCategoryID    = "category_id"
	FieldCategoryName  = "category_name"
	FieldTransactionID = "transaction_id"
	FieldReminderID    = "reminder_id"
	FieldAmountCents   = "amount_cents"
	FieldUser          = "user"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentNotify   = "notify"
	ComponentAMQP     = "amqp"
	ComponentAuth     = "auth"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentReminder = "reminder"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRename   = "rename"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpExport   = "export"
	OpRollover = "rollover"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
