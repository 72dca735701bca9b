package logger

// Standard structured-field keys, kept consistent across the caster so
// log lines can be grepped/aggregated by field name.
const (
	// Tracing / correlation
	KeyTraceID = "trace_id"
	KeyCID     = "cid" // monotonic client id

	// Request (C1)
	KeyMethod    = "method"
	KeyHost      = "host"
	KeyPort      = "port"
	KeyPath      = "path"
	KeyUserAgent = "user_agent"

	// Mount routing (C5)
	KeyMount           = "mount"
	KeyClientType      = "client_type"
	KeySourceClients   = "source_clients"
	KeyTotalClients    = "total_clients"
	KeyMaxClients      = "max_clients"
	KeyMaxPerSource    = "max_clients_per_source"
	KeyRejectionReason = "reason"

	// Auth (C2/C3/C4)
	KeyUser      = "user"
	KeyAuthRealm = "auth_realm"
	KeyOutcome   = "outcome"

	// Connection
	KeyClientIP = "client_ip"
	KeyBytes    = "bytes"
	KeyErrors   = "errors"

	// Reload
	KeyReloadTarget = "reload_target"
	KeyMtime        = "mtime"
)
