package security

import (
	"fmt"
	"sync"
	"time"

	"github.com/ferranmt/saludbot/internal/core/clock"
	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/metrics"
)

const (
	rateWindow      = time.Minute
	maxBlockMinutes = 60
)

// limitRecord tracks one identity's sliding window.
type limitRecord struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// RateLimiter admits at most perMinute requests per identity per
// window, blocking repeat offenders progressively longer.
type RateLimiter struct {
	perMinute int
	clk       clock.Clock
	events    *EventLog

	mu      sync.Mutex
	records map[int64]*limitRecord
}

// NewRateLimiter creates a limiter with the given per-minute cap.
func NewRateLimiter(perMinute int, clk clock.Clock, events *EventLog) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &RateLimiter{
		perMinute: perMinute,
		clk:       clk,
		events:    events,
		records:   make(map[int64]*limitRecord),
	}
}

// Admit decides whether a request from userID may proceed. Admission
// is linearized per process: the record map is guarded by one mutex so
// concurrent checks for the same identity never race.
func (r *RateLimiter) Admit(userID int64) bool {
	now := r.clk.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID]
	if !ok {
		rec = &limitRecord{windowStart: now}
		r.records[userID] = rec
	}

	if !rec.blockedUntil.IsZero() {
		if now.Before(rec.blockedUntil) {
			return false
		}
		// Block lapsed: fresh window, this request counts as the first.
		rec.blockedUntil = time.Time{}
		rec.count = 1
		rec.windowStart = now
		return true
	}

	if now.Sub(rec.windowStart) > rateWindow {
		rec.count = 0
		rec.windowStart = now
	}

	rec.count++
	if rec.count > r.perMinute {
		blockMinutes := rec.count - r.perMinute
		if blockMinutes > maxBlockMinutes {
			blockMinutes = maxBlockMinutes
		}
		rec.blockedUntil = now.Add(time.Duration(blockMinutes) * time.Minute)

		metrics.RateLimitBlocks.Inc()
		r.events.Emit(domain.SecurityEvent{
			UserID:      userID,
			Type:        domain.EventRateLimitExceeded,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("rate limit exceeded: %d requests in 1 minute", rec.count),
			Timestamp:   now,
			Data:        map[string]any{"requests": rec.count, "block_minutes": blockMinutes},
		})
		return false
	}

	return true
}

// BlockedUntil returns when a user's block expires, or a zero time.
func (r *RateLimiter) BlockedUntil(userID int64) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[userID]; ok {
		return rec.blockedUntil
	}
	return time.Time{}
}
