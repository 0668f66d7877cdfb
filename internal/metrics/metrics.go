// Package metrics exposes Prometheus counters for drag editing activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vertexdrag"

// Recorder counts tool activity. A nil *Recorder records nothing.
type Recorder struct {
	presses       *prometheus.CounterVec
	sessions      prometheus.Counter
	commits       prometheus.Counter
	cancellations *prometheus.CounterVec
	writeFailures prometheus.Counter
	activeDrags   prometheus.Gauge
}

// New registers the tool metrics with reg
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		presses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "locator",
			Name:      "presses_total",
			Help:      "Pointer presses by locator outcome",
		}, []string{"outcome"}),

		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drag",
			Name:      "sessions_started_total",
			Help:      "Drag sessions started",
		}),

		commits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drag",
			Name:      "commits_total",
			Help:      "Drag sessions committed to the layer",
		}),

		cancellations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drag",
			Name:      "cancellations_total",
			Help:      "Drag sessions cancelled, by reason",
		}, []string{"reason"}),

		writeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drag",
			Name:      "write_failures_total",
			Help:      "Commits rejected by the layer",
		}),

		activeDrags: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "drag",
			Name:      "active",
			Help:      "1 while a drag session is in progress",
		}),
	}
}

// PressHit counts a press that found a vertex
func (r *Recorder) PressHit() {
	if r == nil {
		return
	}
	r.presses.WithLabelValues("hit").Inc()
}

// PressMiss counts a press with no vertex in range
func (r *Recorder) PressMiss() {
	if r == nil {
		return
	}
	r.presses.WithLabelValues("miss").Inc()
}

func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.sessions.Inc()
	r.activeDrags.Set(1)
}

func (r *Recorder) SessionCommitted() {
	if r == nil {
		return
	}
	r.commits.Inc()
	r.activeDrags.Set(0)
}

func (r *Recorder) SessionCancelled(reason string) {
	if r == nil {
		return
	}
	r.cancellations.WithLabelValues(reason).Inc()
	r.activeDrags.Set(0)
}

// WriteFailed counts a rejected commit. The session is over either way.
func (r *Recorder) WriteFailed() {
	if r == nil {
		return
	}
	r.writeFailures.Inc()
	r.activeDrags.Set(0)
}
