package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SyncRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plume_sync_runs_total",
		Help: "Total account sync runs",
	})
	SyncErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plume_sync_errors_total",
		Help: "Total account sync errors",
	})
	TweetsSynced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plume_tweets_synced_total",
		Help: "Total tweets synced",
	})
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plume_sync_duration_seconds",
		Help:    "Account sync duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	CleanupRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plume_cleanup_runs_total",
		Help: "Total cleanup runs",
	})
	InsightRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plume_insight_runs_total",
		Help: "Total insight generation runs",
	})
)

func init() {
	prometheus.MustRegister(SyncRuns, SyncErrors, TweetsSynced, SyncDuration, CleanupRuns, InsightRuns)
}

// ObserveSyncDuration 记录一次同步耗时
func ObserveSyncDuration(start time.Time) {
	SyncDuration.Observe(time.Since(start).Seconds())
}
