// Package prometheus is the concrete pkg/metrics.CasterMetrics
// implementation, registering Prometheus collectors against a private
// registry. Every method is nil-safe, so a
// nil *Metrics (metrics disabled in configuration) is a legitimate
// zero-overhead CasterMetrics value.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the Prometheus-backed CasterMetrics implementation.
type Metrics struct {
	registry *prometheus.Registry

	activeClients  prometheus.Gauge
	sourceClients  *prometheus.GaugeVec
	admissions     *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	authOutcomes   *prometheus.CounterVec
	bytesRelayed   *prometheus.CounterVec
	reloads        *prometheus.CounterVec
}

// New registers the caster's collectors against a fresh private registry
// and returns both. The registry is what the admin HTTP surface exposes on
// /metrics via promhttp.HandlerFor.
func New() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		activeClients: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "caster",
			Name:      "active_clients",
			Help:      "Current number of attached NTRIP listeners across all mounts.",
		}),
		sourceClients: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "caster",
			Name:      "source_clients",
			Help:      "Current number of attached listeners per mount.",
		}, []string{"mount"}),
		admissions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "caster",
			Name:      "admissions_total",
			Help:      "Total number of successful listener admissions per mount.",
		}, []string{"mount"}),
		rejections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "caster",
			Name:      "rejections_total",
			Help:      "Total number of rejected admission attempts per mount and reason.",
		}, []string{"mount", "reason"}),
		authOutcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "caster",
			Name:      "auth_outcomes_total",
			Help:      "Total number of authenticator decisions by outcome.",
		}, []string{"outcome"}),
		bytesRelayed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "caster",
			Name:      "bytes_relayed_total",
			Help:      "Total bytes relayed to listeners per mount.",
		}, []string{"mount"}),
		reloads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "caster",
			Name:      "reloads_total",
			Help:      "Total reload attempts by target and outcome.",
		}, []string{"target", "ok"}),
	}

	return m, reg
}

func (m *Metrics) SetActiveClients(n int) {
	if m == nil {
		return
	}
	m.activeClients.Set(float64(n))
}

func (m *Metrics) SetSourceClients(mount string, n int) {
	if m == nil {
		return
	}
	m.sourceClients.WithLabelValues(mount).Set(float64(n))
}

func (m *Metrics) RecordAdmission(mount string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(mount).Inc()
}

func (m *Metrics) RecordRejection(mount, reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(mount, reason).Inc()
}

func (m *Metrics) RecordAuthOutcome(outcome string) {
	if m == nil {
		return
	}
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordBytesRelayed(mount string, n uint64) {
	if m == nil {
		return
	}
	m.bytesRelayed.WithLabelValues(mount).Add(float64(n))
}

func (m *Metrics) RecordReload(target string, ok bool) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues(target, boolLabel(ok)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
