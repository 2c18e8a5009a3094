// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Total catalog dataset loads by backend outcome",
		},
		[]string{"dataset", "status"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog reads served from the redis layer",
		},
		[]string{"dataset"},
	)

	CatalogRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_skipped_total",
			Help: "Catalog rows dropped by schema validation",
		},
		[]string{"dataset"},
	)

	MatchScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"pipeline"},
	)
)
