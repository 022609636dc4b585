// Package metrics holds the Prometheus instruments of the datastore.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bingbr/League-API-datastore/internal/core"
)

const namespace = "league_datastore"

// Metrics implements the observer interfaces of the riot client, the history
// fetcher, the resolver store and the match reference cache.
type Metrics struct {
	RiotRequestsTotal   *prometheus.CounterVec
	RiotRequestDuration *prometheus.HistogramVec

	HistoryPagesTotal   prometheus.Counter
	HistoryRecordsTotal *prometheus.CounterVec
	HistoryFetchesDone  prometheus.Counter

	ResolvesTotal *prometheus.CounterVec

	CacheReferencesTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers every instrument on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RiotRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "riot_requests_total",
				Help:      "Total number of Riot API requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),
		RiotRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "riot_request_duration_seconds",
				Help:      "Duration of Riot API requests in seconds",
				Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),

		HistoryPagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_pages_total",
				Help:      "Total number of match history pages applied",
			},
		),
		HistoryRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_records_total",
				Help:      "Match references seen by history fetches, by outcome",
			},
			[]string{"outcome"},
		),
		HistoryFetchesDone: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_fetches_completed_total",
				Help:      "Total number of match history fetches that reached their end",
			},
		),

		ResolvesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolves_total",
				Help:      "Total number of entity resolutions by kind, family and status",
			},
			[]string{"kind", "family", "status"},
		),

		CacheReferencesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_references_total",
				Help:      "Match references offered to the cache, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveRequest(endpoint string, statusCode int, elapsed time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.RiotRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RiotRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePage(reported, kept int, done bool) {
	m.HistoryPagesTotal.Inc()
	m.HistoryRecordsTotal.WithLabelValues("kept").Add(float64(kept))
	m.HistoryRecordsTotal.WithLabelValues("filtered").Add(float64(reported - kept))
	if done {
		m.HistoryFetchesDone.Inc()
	}
}

func (m *Metrics) ObserveResolve(kind core.Kind, family string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ResolvesTotal.WithLabelValues(kind.String(), family, status).Inc()
}

func (m *Metrics) ObserveCacheWrite(written, skipped int) {
	m.CacheReferencesTotal.WithLabelValues("written").Add(float64(written))
	m.CacheReferencesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewServer exposes /metrics and /health on addr.
func NewServer(addr string, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"league-datastore"}`))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
