package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SecurityEvents tracks emitted security events by type and severity
	SecurityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saludbot_security_events_total",
			Help: "Total number of security events emitted",
		},
		[]string{"type", "severity"},
	)

	// RateLimitBlocks tracks users blocked by the rate limiter
	RateLimitBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saludbot_rate_limit_blocks_total",
			Help: "Total number of rate limit blocks applied",
		},
	)

	// ValidationFailures tracks failed validations by input kind
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saludbot_validation_failures_total",
			Help: "Total number of failed input validations",
		},
		[]string{"kind"},
	)

	// RetryAttempts tracks retries by classified error kind
	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saludbot_retry_attempts_total",
			Help: "Total number of retry attempts",
		},
		[]string{"kind"},
	)

	// ActiveSessions tracks sessions currently held in the store
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "saludbot_active_sessions",
			Help: "Number of sessions currently in the store",
		},
	)

	// ExpiredSessions tracks sessions removed by TTL expiry
	ExpiredSessions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saludbot_expired_sessions_total",
			Help: "Total number of sessions removed by TTL expiry",
		},
	)

	// SnapshotWrites tracks snapshot persistence latency
	SnapshotWrites = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saludbot_snapshot_write_seconds",
			Help:    "Snapshot write latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MessagesSent tracks outbound transport calls by result
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saludbot_messages_sent_total",
			Help: "Total number of outbound messages",
		},
		[]string{"result"},
	)
)
