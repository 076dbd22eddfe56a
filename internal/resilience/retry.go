// Package resilience wraps flaky outbound operations with classified
// retries, exponential backoff, and degraded fallbacks. Wrapped
// operations run at least once and must tolerate re-invocation.
package resilience

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/ferranmt/saludbot/internal/metrics"
)

// Policy configures retry behavior.
type Policy struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool
}

// DefaultPolicy provides sensible defaults.
var DefaultPolicy = Policy{
	MaxRetries:      3,
	BaseDelay:       1 * time.Second,
	MaxDelay:        60 * time.Second,
	ExponentialBase: 2.0,
	Jitter:          true,
}

// rateLimitFloor is the minimum wait after a rate-limited failure.
const rateLimitFloor = 30 * time.Second

// Delay computes the backoff before the next attempt. Jitter only adds
// (10%-30% of the delay): subtracting could drop a rate-limited retry
// below the safe floor and feed a retry storm.
func (p Policy) Delay(attempt int, kind ErrorKind) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(p.ExponentialBase, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	delay := time.Duration(d)

	if kind == KindRateLimit && delay < rateLimitFloor {
		delay = rateLimitFloor
	}

	if p.Jitter {
		delay += time.Duration((0.1 + 0.2*rand.Float64()) * float64(delay))
	}
	return delay
}

// Operation is a retryable unit of work.
type Operation func(ctx context.Context) error

// WithRetry runs op, retrying per policy. The last attempt's original
// error is returned, never a synthetic replacement. A context cancelled
// during backoff aborts remaining attempts and returns ctx.Err().
func WithRetry(ctx context.Context, op Operation, p Policy) error {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultPolicy.MaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		kind := Classify(lastErr)
		action := Decide(kind, attempt, p.MaxRetries)
		if action != ActionRetry || attempt == p.MaxRetries {
			return lastErr
		}

		delay := p.Delay(attempt, kind)
		metrics.RetryAttempts.WithLabelValues(string(kind)).Inc()
		slog.Debug("retrying operation",
			"kind", kind, "attempt", attempt, "max_retries", p.MaxRetries, "delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
