package logger

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldBytes      = "bytes"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldBudgetID   = "budget_id"
	FieldTxID       = "transaction_id"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentNotifier = "notifier"
	ComponentMail     = "mail"
	ComponentChat     = "chat"
)
