package security

import (
	"fmt"
	"testing"
	"time"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

func TestEventLogAssignsIDs(t *testing.T) {
	l := NewEventLog()

	l.Emit(domain.SecurityEvent{UserID: 1, Type: domain.EventMaliciousInput, Severity: domain.SeverityHigh, Timestamp: time.Now()})
	l.Emit(domain.SecurityEvent{UserID: 1, Type: domain.EventMaliciousInput, Severity: domain.SeverityHigh, Timestamp: time.Now()})

	got := l.Events(EventFilter{UserID: 1})
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].ID == "" || got[1].ID == "" {
		t.Error("events missing generated ids")
	}
	if got[0].ID == got[1].ID {
		t.Error("events share an id")
	}
}

func TestEventLogCapsAtLimit(t *testing.T) {
	l := NewEventLog()

	for i := 0; i < maxEvents+200; i++ {
		l.Emit(domain.SecurityEvent{
			UserID:      int64(i),
			Type:        domain.EventSuspiciousPattern,
			Severity:    domain.SeverityLow,
			Description: fmt.Sprintf("event %d", i),
			Timestamp:   time.Now(),
		})
	}

	got := l.Events(EventFilter{Limit: maxEvents + 500})
	if len(got) != maxEvents {
		t.Fatalf("log holds %d events, want %d", len(got), maxEvents)
	}

	// Most recent first; the oldest 200 were dropped.
	if got[0].Description != fmt.Sprintf("event %d", maxEvents+199) {
		t.Errorf("newest = %q", got[0].Description)
	}
	if got[len(got)-1].Description != "event 200" {
		t.Errorf("oldest retained = %q", got[len(got)-1].Description)
	}
}

func TestEventLogFilters(t *testing.T) {
	l := NewEventLog()
	now := time.Now()

	l.Emit(domain.SecurityEvent{UserID: 1, Type: domain.EventMaliciousInput, Severity: domain.SeverityHigh, Timestamp: now})
	l.Emit(domain.SecurityEvent{UserID: 2, Type: domain.EventRateLimitExceeded, Severity: domain.SeverityMedium, Timestamp: now})
	l.Emit(domain.SecurityEvent{UserID: 1, Type: domain.EventInvalidInputRepeated, Severity: domain.SeverityLow, Timestamp: now})

	if got := l.Events(EventFilter{UserID: 1}); len(got) != 2 {
		t.Errorf("user filter matched %d, want 2", len(got))
	}
	if got := l.Events(EventFilter{Type: domain.EventRateLimitExceeded}); len(got) != 1 {
		t.Errorf("type filter matched %d, want 1", len(got))
	}
	if got := l.Events(EventFilter{Severity: domain.SeverityHigh}); len(got) != 1 {
		t.Errorf("severity filter matched %d, want 1", len(got))
	}
	if got := l.Events(EventFilter{UserID: 1, Severity: domain.SeverityLow}); len(got) != 1 {
		t.Errorf("combined filter matched %d, want 1", len(got))
	}
	if got := l.Events(EventFilter{}); len(got) != 3 {
		t.Errorf("empty filter matched %d, want 3", len(got))
	}
}

func TestEventLogRespectsLimit(t *testing.T) {
	l := NewEventLog()
	for i := 0; i < 10; i++ {
		l.Emit(domain.SecurityEvent{UserID: 1, Type: domain.EventSuspiciousPattern, Severity: domain.SeverityLow, Timestamp: time.Now()})
	}

	if got := l.Events(EventFilter{Limit: 4}); len(got) != 4 {
		t.Errorf("limit 4 returned %d events", len(got))
	}
}
