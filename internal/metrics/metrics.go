package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AuditsTotal counts analyses by result: success, failed or cached.
	AuditsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brandpulse",
		Subsystem: "audit",
		Name:      "total",
		Help:      "Total number of brand analyses, labeled by result.",
	}, []string{"result"})

	// AuditDurationSeconds is the time from submission to result, per result.
	AuditDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brandpulse",
		Subsystem: "audit",
		Name:      "duration_seconds",
		Help:      "Time to produce an analysis result.",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
	}, []string{"result"})

	// ProviderRequestsTotal counts generateContent calls by outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brandpulse",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Total number of provider requests, labeled by outcome.",
	}, []string{"outcome"})

	// SearchInFlight is 1 while the interactive search is running.
	SearchInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "brandpulse",
		Subsystem: "session",
		Name:      "search_in_flight",
		Help:      "Whether an interactive search is currently running.",
	})

	// WebsocketClients is the number of connected live feed clients.
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "brandpulse",
		Subsystem: "stream",
		Name:      "websocket_clients",
		Help:      "Number of connected websocket clients.",
	})

	// WatchlistRunsTotal counts scheduled or manual watchlist runs by result.
	WatchlistRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brandpulse",
		Subsystem: "watchlist",
		Name:      "runs_total",
		Help:      "Total number of watchlist runs, labeled by result.",
	}, []string{"result"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AuditsTotal,
			AuditDurationSeconds,
			ProviderRequestsTotal,
			SearchInFlight,
			WebsocketClients,
			WatchlistRunsTotal,
		)
	})
}
