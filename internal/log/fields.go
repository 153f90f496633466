package log

// Attribute keys
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldWeekID     = "week_id"
	FieldSlotID     = "slot_id"
	FieldAccountID  = "account_id"
	FieldStatus     = "status"
	FieldEventType  = "event_type"
)

const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentTimesheet   = "timesheet"
	ComponentAggregation = "aggregation"
	ComponentAccounts    = "accounts"
	ComponentCareer      = "career"
	ComponentEvents      = "events"
	ComponentWebSocket   = "websocket"
	ComponentCache       = "cache"
	ComponentSecurity    = "security"
	ComponentTrace       = "trace"
	ComponentBackend     = "backend"
)

const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpAssign   = "assign"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
