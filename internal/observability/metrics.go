package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthOutcomes counts credential operations by operation and outcome.
	AuthOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_auth_outcomes_total",
		Help: "Credential operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// FeedBuildDuration records how long assembling the feed takes.
	FeedBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "board_feed_build_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// FeedPosts records how many posts the last assembled feed contained.
	FeedPosts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "board_feed_posts",
		Help: "Number of posts in the most recently assembled feed",
	})

	// StorageFaults counts storage failures surfaced to callers.
	StorageFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_storage_faults_total",
		Help: "Storage failures by operation",
	}, []string{"operation"})
)

// ObserveAuth records the outcome of a credential operation.
func ObserveAuth(operation, outcome string) {
	AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}

// TrackFeedBuild returns a function that records feed latency when called (e.g. defer).
func TrackFeedBuild() func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		FeedBuildDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}
