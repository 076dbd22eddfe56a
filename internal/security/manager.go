// Package security covers the input pipeline: malicious-pattern
// detection, sanitization, typed validation, abuse telemetry, and rate
// limiting.
package security

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ferranmt/saludbot/internal/core/clock"
	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/metrics"
)

// repeatedErrorThreshold is the consecutive-failure count at which a
// single INVALID_INPUT_REPEATED event fires. It fires exactly at the
// threshold, not on every failure past it.
const repeatedErrorThreshold = 5

// loggedInputPrefix bounds how much raw input may reach the event log.
const loggedInputPrefix = 100

// Manager validates and sanitizes user input and tracks per-user
// validation failures.
type Manager struct {
	clk    clock.Clock
	events *EventLog
	log    *slog.Logger

	mu     sync.Mutex
	errors map[int64]map[domain.InputKind]int
}

// NewManager creates a Manager emitting to the given event log.
func NewManager(clk clock.Clock, events *EventLog) *Manager {
	return &Manager{
		clk:    clk,
		events: events,
		log:    slog.With("component", "security"),
		errors: make(map[int64]map[domain.InputKind]int),
	}
}

// Validate checks raw input against the expected kind. Malicious
// patterns are checked before sanitization and before any type-specific
// validator runs.
func (m *Manager) Validate(text string, kind domain.InputKind, userID int64) Result {
	if pattern, found := detectMalicious(text); found {
		prefix := clampRunes(text, loggedInputPrefix)
		m.events.Emit(domain.SecurityEvent{
			UserID:      userID,
			Type:        domain.EventMaliciousInput,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("malicious pattern detected: %s", pattern),
			Timestamp:   m.clk.Now(),
			Data:        map[string]any{"input": prefix, "pattern": pattern},
		})
		return invalid(
			"Entrada no válida detectada.",
			"Por favor, introduce solo texto normal sin caracteres especiales.",
			"",
		)
	}

	sanitized, truncated := Sanitize(text)
	if truncated {
		m.log.Warn("input truncated", "user_id", userID, "max_length", maxInputLength)
	}
	res := validateKind(sanitized, kind)
	if !res.OK {
		m.trackError(userID, kind)
	}
	return res
}

func (m *Manager) trackError(userID int64, kind domain.InputKind) {
	metrics.ValidationFailures.WithLabelValues(string(kind)).Inc()

	m.mu.Lock()
	byKind, ok := m.errors[userID]
	if !ok {
		byKind = make(map[domain.InputKind]int)
		m.errors[userID] = byKind
	}
	byKind[kind]++
	count := byKind[kind]
	m.mu.Unlock()

	if count == repeatedErrorThreshold {
		m.events.Emit(domain.SecurityEvent{
			UserID:      userID,
			Type:        domain.EventInvalidInputRepeated,
			Severity:    domain.SeverityLow,
			Description: fmt.Sprintf("repeated validation errors for %s: %d", kind, count),
			Timestamp:   m.clk.Now(),
			Data:        map[string]any{"kind": string(kind), "count": count},
		})
	}
}

// ErrorCount returns the failure count for one user and kind.
func (m *Manager) ErrorCount(userID int64, kind domain.InputKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[userID][kind]
}

// ResetErrors clears counters for a user. With an empty kind, all of
// the user's counters are cleared.
func (m *Manager) ResetErrors(userID int64, kind domain.InputKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == "" {
		delete(m.errors, userID)
		return
	}
	if byKind, ok := m.errors[userID]; ok {
		delete(byKind, kind)
	}
}
