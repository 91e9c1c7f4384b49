package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// Recorder holds the scheduling metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	runs           prometheus.Counter
	sessionsPlaced prometheus.Counter
	residuals      *prometheus.CounterVec
	roomsOpened    prometheus.Counter
	runDuration    prometheus.Histogram
}

// NewRecorder registers the scheduling metrics, plus the Go and process
// collectors, on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomsched_runs_total",
			Help: "Scheduling runs completed.",
		}),
		sessionsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomsched_sessions_placed_total",
			Help: "Sessions committed to a room window.",
		}),
		residuals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomsched_sessions_residual_total",
			Help: "Sessions left unscheduled at the end of a run, by reason.",
		}, []string{"reason"}),
		roomsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomsched_rooms_opened_total",
			Help: "Room activations across all days.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomsched_run_duration_seconds",
			Help:    "Wall time of a scheduling run.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}

	r.registry.MustRegister(
		r.runs,
		r.sessionsPlaced,
		r.residuals,
		r.roomsOpened,
		r.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRun records a finished plan.
func (r *Recorder) ObserveRun(g scheduler.Grid, plan *scheduler.Plan, elapsed time.Duration) {
	if r == nil || plan == nil {
		return
	}
	r.runs.Inc()
	r.sessionsPlaced.Add(float64(len(plan.Placements(g))))
	r.roomsOpened.Add(float64(plan.RoomsUsed()))
	for _, res := range plan.Unscheduled {
		r.residuals.WithLabelValues(string(res.Reason)).Inc()
	}
	r.runDuration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
