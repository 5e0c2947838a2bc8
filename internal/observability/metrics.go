package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	computedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "workouts",
		Name:      "computed_total",
		Help:      "Number of workout packages computed, by kind.",
	}, []string{"kind"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "workouts",
		Name:      "failed_total",
		Help:      "Number of workout packages rejected, by reason.",
	}, []string{"reason"})

	caloriesHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "workouts",
		Name:      "calories",
		Help:      "Distribution of computed calories per workout.",
		Buckets:   []float64{50, 100, 200, 300, 500, 750, 1000, 1500, 2000},
	}, []string{"kind"})

	lastComputedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "workouts",
		Name:      "last_computed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful computation.",
	})
)

func init() {
	prometheus.MustRegister(computedCounter, failedCounter, caloriesHistogram, lastComputedGauge)
}

// RecordComputed counts a successful computation.
func RecordComputed(kind string, calories float64, ts time.Time) {
	computedCounter.WithLabelValues(kind).Inc()
	caloriesHistogram.WithLabelValues(kind).Observe(calories)
	if !ts.IsZero() {
		lastComputedGauge.Set(float64(ts.Unix()))
	}
}

// RecordFailed counts a rejected package.
func RecordFailed(reason string) {
	failedCounter.WithLabelValues(reason).Inc()
}
