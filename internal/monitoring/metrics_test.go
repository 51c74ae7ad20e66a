package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewScrapeMetrics(reg)
	require.NoError(t, err)

	m.ObservePort(ResultOK)
	m.ObservePort(ResultOK)
	m.ObservePort(ResultSchema)
	m.ObserveFetch(150 * time.Millisecond)
	m.RunFinished(time.Unix(1700000000, 0), 2)

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.PortsTotal.WithLabelValues(ResultOK)), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.PortsTotal.WithLabelValues(ResultSchema)), 1e-9)
	assert.InDelta(t, 1700000000.0, testutil.ToFloat64(m.LastRunTimestamp), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.LastRunFeatures), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.DetailFetchDuration))
}

func TestScrapeMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewScrapeMetrics(reg)
	require.NoError(t, err)
	b, err := NewScrapeMetrics(reg)
	require.NoError(t, err)

	a.ObservePort(ResultTransport)
	assert.InDelta(t, 1.0, testutil.ToFloat64(b.PortsTotal.WithLabelValues(ResultTransport)), 1e-9)
}

func TestScrapeMetrics_Nil(t *testing.T) {
	var m *ScrapeMetrics
	assert.NotPanics(t, func() {
		m.ObservePort(ResultOK)
		m.ObserveFetch(time.Second)
		m.RunFinished(time.Now(), 1)
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestScrapeMetrics_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewScrapeMetrics(reg)
	require.NoError(t, err)
	m.ObservePort(ResultOK)

	path := filepath.Join(t.TempDir(), "sadamad.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sadamad_ports_total{result="ok"} 1`)
}
