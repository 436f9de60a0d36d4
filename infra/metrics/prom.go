package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromObserver records migration runs in Prometheus metrics. It implements
// the migration runner's observer interface.
type PromObserver struct {
	revisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPromObserver registers migration metrics on the default Prometheus
// registerer.
func NewPromObserver() (*PromObserver, error) {
	return NewPromObserverWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromObserverWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromObserverWithRegistry(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	revisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schema_revisions_applied_total",
		Help: "Total number of schema revisions applied or reverted",
	}, []string{"revision", "direction"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schema_revision_duration_seconds",
		Help:    "Time spent applying or reverting one schema revision",
		Buckets: prometheus.DefBuckets,
	}, []string{"revision", "direction"})

	if err := reg.Register(revisions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			revisions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &PromObserver{revisions: revisions, duration: duration}, nil
}

func (o *PromObserver) RevisionApplied(id, direction string, took time.Duration) {
	o.revisions.WithLabelValues(id, direction).Inc()
	o.duration.WithLabelValues(id, direction).Observe(took.Seconds())
}
