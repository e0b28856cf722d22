package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recompute outcomes used as the result label.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultError    = "error"
)

var (
	recomputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "recompute_total",
		Help:      "Leaderboard recompute attempts partitioned by result.",
	}, []string{"result"})
	recomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "recompute_duration_seconds",
		Help:      "Wall time of successful leaderboard rebuilds.",
		Buckets:   prometheus.DefBuckets,
	})
	leaderboardEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "entries",
		Help:      "Number of rows written by the most recent recompute.",
	})
	lastRecomputeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "last_recompute_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful recompute.",
	})
)

func init() {
	prometheus.MustRegister(recomputeTotal, recomputeDuration, leaderboardEntries, lastRecomputeGauge)
}

// RecordRecompute updates the recompute collectors. entries and elapsed are
// only recorded for successful runs.
func RecordRecompute(result string, entries int, elapsed time.Duration) {
	recomputeTotal.WithLabelValues(result).Inc()
	if result != ResultOK {
		return
	}
	recomputeDuration.Observe(elapsed.Seconds())
	leaderboardEntries.Set(float64(entries))
	lastRecomputeGauge.Set(float64(time.Now().Unix()))
}
