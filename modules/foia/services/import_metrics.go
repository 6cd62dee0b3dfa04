package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foia",
		Subsystem: "import",
		Name:      "pipeline_runs_total",
		Help:      "Import pipeline runs by terminal outcome.",
	}, []string{"outcome"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "foia",
		Subsystem: "import",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall-clock duration of full pipeline runs.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	recordsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foia",
		Subsystem: "import",
		Name:      "records_total",
		Help:      "Source records by per-record outcome.",
	}, []string{"outcome"})

	rollbackRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foia",
		Subsystem: "rollback",
		Name:      "records_total",
		Help:      "Undo records visited by rollback, by outcome.",
	}, []string{"outcome"})
)

func observePipelineRun(outcome string, seconds float64) {
	pipelineRunsTotal.WithLabelValues(outcome).Inc()
	pipelineDuration.Observe(seconds)
}

func observeExecution(res DatabaseUpdateResult) {
	recordsProcessedTotal.WithLabelValues("updated").Add(float64(res.UpdatedCount))
	recordsProcessedTotal.WithLabelValues("failed").Add(float64(res.FailedCount))
	recordsProcessedTotal.WithLabelValues("warned").Add(float64(len(res.Warnings)))
}

func observeRollback(res RollbackResult) {
	rollbackRecordsTotal.WithLabelValues("reverted").Add(float64(res.RevertedCount))
	rollbackRecordsTotal.WithLabelValues("failed").Add(float64(res.FailedCount))
}
