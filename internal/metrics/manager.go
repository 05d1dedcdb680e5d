package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every collector the service exports.
type Manager struct {
	// counters
	CounterRequests    *prometheus.CounterVec
	CounterFeedLoads   *prometheus.CounterVec
	CounterFeedRetries prometheus.Counter
	CounterCompletions prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitfeed", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitfeed", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		CounterFeedLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_loads_total",
			Help:      "Feed loads by result (hit, miss, error)",
		}, []string{"result"}),
		CounterFeedRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_retries_total",
			Help:      "Provider calls retried by the feed loader",
		}),
		CounterCompletions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completions_total",
			Help:      "Workout completions recorded",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
	}
}

// FeedLoad counts one feed load outcome. Safe on a nil Manager.
func (m *Manager) FeedLoad(result string) {
	if m == nil {
		return
	}
	m.CounterFeedLoads.WithLabelValues(result).Inc()
}

// FeedRetry counts one retried provider call. Safe on a nil Manager.
func (m *Manager) FeedRetry() {
	if m == nil {
		return
	}
	m.CounterFeedRetries.Inc()
}

// Completion counts one recorded completion. Safe on a nil Manager.
func (m *Manager) Completion() {
	if m == nil {
		return
	}
	m.CounterCompletions.Inc()
}
