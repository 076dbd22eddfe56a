package security

import (
	"testing"
	"time"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

func TestRateLimiterAdmitsUpToCap(t *testing.T) {
	clk := newFakeClock()
	r := NewRateLimiter(10, clk, NewEventLog())

	for i := 0; i < 10; i++ {
		if !r.Admit(1) {
			t.Fatalf("request %d rejected below the cap", i+1)
		}
	}
	if r.Admit(1) {
		t.Error("request 11 admitted above the cap")
	}
}

func TestRateLimiterBlockDuration(t *testing.T) {
	clk := newFakeClock()
	r := NewRateLimiter(10, clk, NewEventLog())

	// The 11th request starts the block: one minute per request over
	// the cap at violation time.
	for i := 0; i < 11; i++ {
		r.Admit(2)
	}
	until := r.BlockedUntil(2)
	if got, want := until.Sub(clk.Now()), time.Minute; got != want {
		t.Errorf("block after 11 requests = %v, want %v", got, want)
	}

	// While blocked, further requests are rejected without extending
	// the block.
	for i := 0; i < 50; i++ {
		if r.Admit(2) {
			t.Fatal("admitted while blocked")
		}
	}
	if r.BlockedUntil(2) != until {
		t.Error("rejected requests extended the block")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	clk := newFakeClock()
	r := NewRateLimiter(10, clk, NewEventLog())

	for i := 0; i < 10; i++ {
		r.Admit(4)
	}
	clk.advance(61 * time.Second)

	if !r.Admit(4) {
		t.Error("request rejected after window reset")
	}
}

func TestRateLimiterBlockLapseReadmits(t *testing.T) {
	clk := newFakeClock()
	r := NewRateLimiter(10, clk, NewEventLog())

	for i := 0; i < 11; i++ {
		r.Admit(5)
	}
	if r.Admit(5) {
		t.Fatal("admitted while blocked")
	}

	clk.advance(time.Minute + time.Second)
	if !r.Admit(5) {
		t.Fatal("rejected after block lapsed")
	}
	if r.BlockedUntil(5) != (time.Time{}) {
		t.Error("block not cleared after lapse")
	}

	// The lapsed-block request counted as the first of a fresh window.
	for i := 0; i < 9; i++ {
		if !r.Admit(5) {
			t.Fatalf("request %d rejected in fresh window", i+2)
		}
	}
	if r.Admit(5) {
		t.Error("11th request of fresh window admitted")
	}
}

func TestRateLimiterEmitsEvent(t *testing.T) {
	clk := newFakeClock()
	events := NewEventLog()
	r := NewRateLimiter(10, clk, events)

	for i := 0; i < 11; i++ {
		r.Admit(6)
	}

	got := events.Events(EventFilter{UserID: 6, Type: domain.EventRateLimitExceeded})
	if len(got) != 1 {
		t.Fatalf("expected 1 rate limit event, got %d", len(got))
	}
	if got[0].Severity != domain.SeverityMedium {
		t.Errorf("severity = %q, want medium", got[0].Severity)
	}
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	clk := newFakeClock()
	r := NewRateLimiter(10, clk, NewEventLog())

	for i := 0; i < 11; i++ {
		r.Admit(7)
	}
	if !r.Admit(8) {
		t.Error("unrelated user affected by another user's block")
	}
}
