package validator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fixed HELP strings.
const (
	instancesHelp = "Number of validator instances created by the factory"
	failuresHelp  = "Number of failed validator instance requests"
	sizeHelp      = "Number of validators in the registry"
)

// Failure reasons reported by validator_lookup_failures_total.
const (
	reasonNoSuchValidator = "no_such_validator"
	reasonConstruction    = "construction"
	reasonConfig          = "config"
)

// MetricsExporter manages the Prometheus metrics of a Factory.
// A nil *MetricsExporter is valid and records nothing.
type MetricsExporter struct {
	instances *prometheus.CounterVec
	failures  *prometheus.CounterVec
	size      prometheus.Gauge
}

// NewMetricsExporter creates the factory metrics and registers them with r.
func NewMetricsExporter(r prometheus.Registerer) (*MetricsExporter, error) {
	instances := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validator_instances_total",
		Help: instancesHelp,
	}, []string{"validator", "path"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validator_lookup_failures_total",
		Help: failuresHelp,
	}, []string{"reason"})

	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "validator_registry_size",
		Help: sizeHelp,
	})

	for _, c := range []prometheus.Collector{instances, failures, size} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}

	return &MetricsExporter{
		instances: instances,
		failures:  failures,
		size:      size,
	}, nil
}

// ObserveInstance counts a successfully created instance.
// path is "registry" or "fallback".
func (m *MetricsExporter) ObserveInstance(name, path string) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(name, path).Inc()
}

// ObserveFailure counts a failed request.
func (m *MetricsExporter) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// SetRegistrySize updates the registry size gauge.
func (m *MetricsExporter) SetRegistrySize(n int) {
	if m == nil {
		return
	}
	m.size.Set(float64(n))
}
