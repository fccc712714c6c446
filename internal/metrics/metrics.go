// Package metrics implements a Prometheus-backed runtime.MetricsRecorder,
// exposed over HTTP for the `golox run --metrics-addr` and `golox watch`
// modes of SPEC_FULL.md §8.
//
// Grounded on kubernetes-kube-state-metrics's use of
// github.com/prometheus/client_golang/prometheus as the metrics surface for
// a long-running process; golox's metrics are far simpler (no custom
// collectors, just a handful of gauges/counters updated from one call site)
// so it registers them directly rather than building kube-state-metrics's
// generator/collector machinery.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements runtime.MetricsRecorder, publishing heap occupancy
// and collection counts as Prometheus metrics.
type Recorder struct {
	registry *prometheus.Registry

	heapObjectsLive       prometheus.Gauge
	collectionsTotal      prometheus.Counter
	objectsReclaimedTotal prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry, so a --metrics-addr
// golox process never accidentally exports the default global registry's
// Go-runtime metrics alongside interpreter metrics without being asked to.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		heapObjectsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "golox",
			Subsystem: "heap",
			Name:      "objects_live",
			Help:      "Number of traceable objects currently registered in the heap.",
		}),
		collectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golox",
			Subsystem: "heap",
			Name:      "collections_total",
			Help:      "Number of mark-and-sweep collections run.",
		}),
		objectsReclaimedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golox",
			Subsystem: "heap",
			Name:      "objects_reclaimed_total",
			Help:      "Cumulative count of objects reclaimed across all collections.",
		}),
	}

	reg.MustRegister(r.heapObjectsLive, r.collectionsTotal, r.objectsReclaimedTotal)
	return r
}

// RecordCollection implements runtime.MetricsRecorder.
func (r *Recorder) RecordCollection(live, reclaimed int) {
	r.heapObjectsLive.Set(float64(live))
	r.collectionsTotal.Inc()
	r.objectsReclaimedTotal.Add(float64(reclaimed))
}

// Handler returns the HTTP handler that serves this recorder's registry at
// /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
