package prometheus

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafeToCall(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.SetActiveClients(1)
		m.SetSourceClients("/MOUNT1", 1)
		m.RecordAdmission("/MOUNT1")
		m.RecordRejection("/MOUNT1", "server_full")
		m.RecordAuthOutcome("authorized")
		m.RecordBytesRelayed("/MOUNT1", 1024)
		m.RecordReload("auth", true)
	})
}

func TestRecordAdmissionIncrementsCounter(t *testing.T) {
	m, _ := New()
	m.RecordAdmission("/MOUNT1")
	m.RecordAdmission("/MOUNT1")

	metric := &dto.Metric{}
	require.NoError(t, m.admissions.WithLabelValues("/MOUNT1").Write(metric))
	require.Equal(t, float64(2), metric.GetCounter().GetValue())
}
