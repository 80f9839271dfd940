// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Exposes a snapshot source (typically api.Control.Stats) as a
// prometheus.Collector so an embedding application can scrape RPC
// engine health without this module opening an HTTP listener itself.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter adapts a snapshot func into a prometheus.Collector.
// Only numeric values are exported; non-numeric ones are skipped. The
// source is pulled fresh on every Collect, so it is usually a bound
// method like api.Control.Stats rather than a static map.
type PrometheusExporter struct {
	source    func() map[string]any
	namespace string
}

// NewPrometheusExporter wraps source for namespace, e.g. "wsrpc".
func NewPrometheusExporter(source func() map[string]any, namespace string) *PrometheusExporter {
	return &PrometheusExporter{source: source, namespace: namespace}
}

// Describe implements prometheus.Collector. Metric names are dynamic,
// so no fixed descriptors are sent; Prometheus treats this collector as
// "unchecked".
func (e *PrometheusExporter) Describe(ch chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector, emitting one gauge per
// numeric value currently in the source snapshot.
func (e *PrometheusExporter) Collect(ch chan<- prometheus.Metric) {
	for key, value := range e.source() {
		var f float64
		switch v := value.(type) {
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case float64:
			f = v
		default:
			continue
		}
		desc := prometheus.NewDesc(
			prometheus.BuildFQName(e.namespace, "", sanitizeMetricName(key)),
			"RPC engine metric "+key,
			nil, nil,
		)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, f)
	}
}

// Gatherer returns a prometheus.Gatherer backed by a fresh registry
// holding only this exporter, for the embedding application to expose
// on its own HTTP mux.
func (e *PrometheusExporter) Gatherer() prometheus.Gatherer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	return reg
}

func sanitizeMetricName(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
