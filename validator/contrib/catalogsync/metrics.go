package catalogsync

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	published *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	up        *prometheus.GaugeVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "validator_catalog_publish_total",
			Help: "Catalog snapshot publish attempts by publisher and result.",
		}, []string{"publisher", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "validator_catalog_publish_duration_seconds",
			Help:    "Catalog snapshot publish latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"publisher"}),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "validator_catalog_publisher_up",
			Help: "Whether the publisher delivered its last rounds (1) or is down (0).",
		}, []string{"publisher"}),
	}
	for _, c := range []prometheus.Collector{m.published, m.latency, m.up} {
		if err := r.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *metrics) observe(publisher string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(publisher, result).Inc()
	m.latency.WithLabelValues(publisher).Observe(d.Seconds())
}

func (m *metrics) setUp(publisher string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.up.WithLabelValues(publisher).Set(v)
}
