// Package monitoring exposes Prometheus metrics for scrape runs.
package monitoring

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Port outcome labels for ScrapeMetrics.ObservePort.
const (
	ResultOK        = "ok"
	ResultTransport = "transport"
	ResultSchema    = "schema"
	ResultPosition  = "position"
)

// ScrapeMetrics holds the metrics of the scrape pipeline. A nil
// *ScrapeMetrics is valid and records nothing.
type ScrapeMetrics struct {
	gatherer prometheus.Gatherer

	PortsTotal          *prometheus.CounterVec
	DetailFetchDuration prometheus.Histogram
	LastRunTimestamp    prometheus.Gauge
	LastRunFeatures     prometheus.Gauge
}

// NewScrapeMetrics registers the scrape metrics against reg. A nil reg uses
// the default registry.
func NewScrapeMetrics(reg prometheus.Registerer) (*ScrapeMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ports, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sadamad_ports_total",
		Help: "Ports processed by the scraper, by outcome.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	fetch, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sadamad_detail_fetch_seconds",
		Help:    "Duration of port detail requests, including rate limiter wait.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}))
	if err != nil {
		return nil, err
	}

	lastRun, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sadamad_last_run_timestamp_seconds",
		Help: "Unix time the last scrape run finished.",
	}))
	if err != nil {
		return nil, err
	}

	features, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sadamad_last_run_features",
		Help: "Features written by the last scrape run.",
	}))
	if err != nil {
		return nil, err
	}

	return &ScrapeMetrics{
		gatherer:            gatherer,
		PortsTotal:          ports,
		DetailFetchDuration: fetch,
		LastRunTimestamp:    lastRun,
		LastRunFeatures:     features,
	}, nil
}

// ObservePort counts one port outcome.
func (m *ScrapeMetrics) ObservePort(result string) {
	if m == nil {
		return
	}
	m.PortsTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records a detail request duration.
func (m *ScrapeMetrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.DetailFetchDuration.Observe(d.Seconds())
}

// RunFinished records the end of a run.
func (m *ScrapeMetrics) RunFinished(at time.Time, features int) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(at.Unix()))
	m.LastRunFeatures.Set(float64(features))
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// for node_exporter's textfile collector.
func (m *ScrapeMetrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return eris.Wrapf(err, "monitoring: write textfile %s", path)
	}
	return nil
}

// register registers c, returning the existing collector when an equal one
// is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, eris.Errorf("monitoring: collector already registered with incompatible type: %v", err)
		}
		var zero T
		return zero, eris.Wrap(err, "monitoring: register collector")
	}
	return c, nil
}
