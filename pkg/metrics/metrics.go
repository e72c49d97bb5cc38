package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_processed_total",
			Help: "Ingested payloads by outcome",
		},
		[]string{"outcome"}, // outcome: ingested, duplicate, no_match, error
	)

	TransactionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_transactions_created_total",
			Help: "Transactions extracted and persisted, by issuer",
		},
		[]string{"issuer"},
	)

	DetectorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subscription_detector_duration_seconds",
			Help:    "Duration of a full recurrence detection pass",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	SubscriptionCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subscription_candidates_found",
			Help:    "Candidates reported per detector run",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)
)

// RecordOutcome increments the processed counter for one payload outcome.
func RecordOutcome(outcome string) {
	MessagesProcessed.WithLabelValues(outcome).Inc()
}

// RecordDetectorRun records duration and result size of one detector pass.
func RecordDetectorRun(d time.Duration, candidates int) {
	DetectorDuration.Observe(d.Seconds())
	SubscriptionCandidates.Observe(float64(candidates))
}
