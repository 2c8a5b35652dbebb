package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bitebase_market_analyses_total",
		Help: "Market analyses finished, by type and terminal status",
	}, []string{"type", "status"})

	AnalysisDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bitebase_market_analysis_duration_ms",
		Help:    "Market analysis computation time in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"type"})

	AnalysisPersistFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bitebase_market_analysis_persist_failures_total",
		Help: "Analyses whose terminal state could not be written, by status",
	}, []string{"status"})

	AnalysisQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bitebase_market_analysis_queue_depth",
		Help: "Analyses waiting for a worker",
	})

	OpportunityScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bitebase_opportunity_score",
		Help:    "Distribution of computed opportunity scores",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})

	NearbyLookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bitebase_nearby_lookups_total",
		Help: "Proximity restaurant lookups",
	})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bitebase_cache_hits_total",
		Help: "Nearby lookup cache hits",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bitebase_cache_misses_total",
		Help: "Nearby lookup cache misses",
	})

	SnapshotRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bitebase_competition_snapshot_recomputes_total",
		Help: "Competition snapshot recomputations by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		AnalysesTotal,
		AnalysisDurationMs,
		AnalysisPersistFailuresTotal,
		AnalysisQueueDepth,
		OpportunityScore,
		NearbyLookupsTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		SnapshotRecomputesTotal,
	)
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
