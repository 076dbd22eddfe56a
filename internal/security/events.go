package security

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/metrics"
)

// maxEvents bounds the in-memory event ring.
const maxEvents = 1000

// EventLog keeps recent security events in memory. Events are telemetry
// about abuse, deliberately never persisted.
type EventLog struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
	log    *slog.Logger
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{log: slog.Default().With("component", "security")}
}

// Emit records an event, assigns it an id, and logs it at a level
// matching its severity.
func (l *EventLog) Emit(ev domain.SecurityEvent) {
	ev.ID = uuid.NewString()

	l.mu.Lock()
	l.events = append(l.events, ev)
	if len(l.events) > maxEvents {
		l.events = l.events[len(l.events)-maxEvents:]
	}
	l.mu.Unlock()

	metrics.SecurityEvents.WithLabelValues(string(ev.Type), string(ev.Severity)).Inc()

	args := []any{"user_id", ev.UserID, "type", ev.Type, "description", ev.Description}
	switch ev.Severity {
	case domain.SeverityCritical, domain.SeverityHigh:
		l.log.Error("security event", args...)
	case domain.SeverityMedium:
		l.log.Warn("security event", args...)
	default:
		l.log.Info("security event", args...)
	}
}

// EventFilter narrows an Events query. Zero values match everything.
type EventFilter struct {
	UserID   int64
	Type     domain.SecurityEventType
	Severity domain.Severity
	Limit    int
}

// Events returns matching events, most recent first.
func (l *EventLog) Events(f EventFilter) []domain.SecurityEvent {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.SecurityEvent, 0, f.Limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < f.Limit; i-- {
		ev := l.events[i]
		if f.UserID != 0 && ev.UserID != f.UserID {
			continue
		}
		if f.Type != "" && ev.Type != f.Type {
			continue
		}
		if f.Severity != "" && ev.Severity != f.Severity {
			continue
		}
		out = append(out, ev)
	}
	return out
}
