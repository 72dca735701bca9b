// Package metrics defines the caster's metrics contract, independent of any
// particular backend. pkg/metrics/prometheus provides the concrete
// implementation; its zero value (a nil *prometheus.Metrics) satisfies
// CasterMetrics with every method a no-op, so the caller can wire metrics
// unconditionally and simply not construct a registry when disabled.
package metrics

// CasterMetrics is the set of observations the admission/routing core
// reports. Implementations must be safe to call from multiple goroutines
// and safe to call on a nil receiver.
type CasterMetrics interface {
	// SetActiveClients reports the current process-wide listener count.
	SetActiveClients(n int)
	// SetSourceClients reports the current listener count for one mount.
	SetSourceClients(mount string, n int)
	// RecordAdmission counts a successful CAPS -> ATTACHED transition.
	RecordAdmission(mount string)
	// RecordRejection counts a terminal non-attachment outcome, e.g.
	// "unauthorized", "not_ntrip_client", "server_full".
	RecordRejection(mount, reason string)
	// RecordAuthOutcome counts an authenticator decision, "authorized" or
	// one of the DenialReason values.
	RecordAuthOutcome(outcome string)
	// RecordBytesRelayed adds to the bytes-relayed counter for a mount.
	RecordBytesRelayed(mount string, n uint64)
	// RecordReload counts an authentication or sourcetable reload attempt,
	// target being "auth" or "sourcetable".
	RecordReload(target string, ok bool)
}
