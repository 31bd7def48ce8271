package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/office-controller/internal/domain/office"
)

const namespace = "office"

// Result label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Recorder counts controller outcomes and received event log entries.
// It satisfies office.Recorder.
type Recorder struct {
	transitions   *prometheus.CounterVec
	faults        *prometheus.CounterVec
	fallbacks     prometheus.Counter
	eventLogTotal *prometheus.CounterVec
}

var _ office.Recorder = (*Recorder)(nil)

// NewRecorder registers the counters with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "controller",
				Name:      "transitions_total",
				Help:      "Mode change requests by source mode, target mode and result.",
			},
			[]string{"from", "to", "result"},
		),
		faults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "controller",
				Name:      "faults_total",
				Help:      "Faulty subsystems found by status reports.",
			},
			[]string{"subsystem"},
		),
		fallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "controller",
				Name:      "fallback_notifications_total",
				Help:      "Fire alarm log failures escalated to the notifier.",
			},
		),
		eventLogTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "eventlog",
				Name:      "entries_total",
				Help:      "Event log entries received by kind.",
			},
			[]string{"kind"},
		),
	}
}

// ObserveTransition counts one mode change request.
func (r *Recorder) ObserveTransition(from, to office.Mode, accepted bool) {
	result := ResultRejected
	if accepted {
		result = ResultAccepted
	}

	r.transitions.WithLabelValues(from.String(), to.String(), result).Inc()
}

// ObserveFaults counts each faulty subsystem of a report.
func (r *Recorder) ObserveFaults(subsystems []string) {
	for _, subsystem := range subsystems {
		r.faults.WithLabelValues(subsystem).Inc()
	}
}

// ObserveFallbackNotification counts one escalation.
func (r *Recorder) ObserveFallbackNotification() {
	r.fallbacks.Inc()
}

// ObserveEntry counts one received event log entry.
func (r *Recorder) ObserveEntry(kind string) {
	r.eventLogTotal.WithLabelValues(kind).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
