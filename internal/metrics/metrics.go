package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the UrVote backend. Collectors
// are built at package init so recording is always safe; Init registers them.
var Metrics = struct {
	VotesTotal               *prometheus.CounterVec
	VoteRejections           *prometheus.CounterVec
	RequestDuration          *prometheus.HistogramVec
	RequestsInFlight         prometheus.Gauge
	CacheHits                prometheus.Counter
	CacheMisses              prometheus.Counter
	LeaderboardQueryDuration prometheus.Histogram
}{
	VotesTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urvote_votes_total",
			Help: "Ledger writes that succeeded, by outcome (added, updated, removed).",
		},
		[]string{"outcome"},
	),
	VoteRejections: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urvote_vote_rejections_total",
			Help: "Vote attempts rejected before or at the ledger, by reason.",
		},
		[]string{"reason"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urvote_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	),
	RequestsInFlight: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "urvote_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	),
	CacheHits: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "urvote_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	),
	CacheMisses: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "urvote_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	),
	LeaderboardQueryDuration: prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "urvote_leaderboard_query_duration_seconds",
			Help:    "Duration of leaderboard aggregation queries.",
			Buckets: prometheus.DefBuckets,
		},
	),
}

// Init registers all collectors with the default registry. Call once at
// startup.
func Init(pool *pgxpool.Pool) {
	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "urvote_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		))

		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "urvote_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		))
	}

	prometheus.MustRegister(
		Metrics.VotesTotal,
		Metrics.VoteRejections,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.LeaderboardQueryDuration,
	)
}
