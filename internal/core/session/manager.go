// Package session owns the conversation state machine: TTL expiry,
// crash-safe snapshot persistence, and progress derivation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ferranmt/saludbot/internal/core/clock"
	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/infra/storage"
	"github.com/ferranmt/saludbot/internal/metrics"
	"github.com/ferranmt/saludbot/internal/questionnaire"
)

var (
	// ErrSessionNotFound is returned when no live session exists for a
	// user. Expired sessions are indistinguishable from absent ones.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownState is returned when a caller declares a state
	// outside the enum.
	ErrUnknownState = errors.New("unknown session state")
)

// Config holds store tuning.
type Config struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	ReminderAfter   time.Duration `yaml:"reminder_after"`
}

// Manager is the session store's public surface.
type Manager interface {
	// SaveProgress upserts the user's session under the declared state
	// and merges the section payload.
	SaveProgress(ctx context.Context, userID int64, state domain.SessionState, upd domain.ProgressUpdate) error

	// LoadProgress returns the user's session if present and not
	// expired. Expired sessions are removed on the spot.
	LoadProgress(ctx context.Context, userID int64) (*domain.Session, error)

	// ClearUser unconditionally removes the user's session.
	ClearUser(ctx context.Context, userID int64) error

	// GetProgressInfo derives human-facing progress for the user.
	GetProgressInfo(ctx context.Context, userID int64) (*ProgressInfo, error)

	// IdleSessions lists users whose questionnaire has sat untouched
	// for at least threshold. Each user is reported once per idle
	// stretch; any new activity re-arms them.
	IdleSessions(threshold time.Duration) []int64

	// Start loads the snapshot and launches the periodic cleanup sweep.
	Start(ctx context.Context) error

	// Stop cancels the sweep, runs one final cleanup, and persists.
	Stop(ctx context.Context) error
}

// DefaultManager implements Manager over a SnapshotRepository. A single
// mutex serializes all session mutations, which also satisfies the
// per-user ordering requirement at this event volume.
type DefaultManager struct {
	repo    storage.SnapshotRepository
	clk     clock.Clock
	catalog questionnaire.Catalog
	cfg     Config
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*domain.Session
	reminded map[int64]struct{}

	cancelSweep context.CancelFunc
	sweepDone   chan struct{}
}

// NewManager creates a store with defaults applied (24h TTL, hourly
// cleanup).
func NewManager(repo storage.SnapshotRepository, clk clock.Clock, catalog questionnaire.Catalog, cfg Config) *DefaultManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 60 * time.Minute
	}
	if cfg.ReminderAfter <= 0 {
		cfg.ReminderAfter = 30 * time.Minute
	}
	return &DefaultManager{
		repo:     repo,
		clk:      clk,
		catalog:  catalog,
		cfg:      cfg,
		log:      slog.Default().With("component", "session"),
		sessions: make(map[int64]*domain.Session),
		reminded: make(map[int64]struct{}),
	}
}

// Start loads the persisted snapshot (a corrupt one yields an empty
// store) and launches the cleanup sweep.
func (m *DefaultManager) Start(ctx context.Context) error {
	loaded, err := m.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	m.mu.Lock()
	m.sessions = loaded
	m.reminded = make(map[int64]struct{})
	m.expireLocked()
	dropped := m.dropInvalidLocked()
	count := len(m.sessions)
	m.mu.Unlock()

	if dropped > 0 {
		m.log.Warn("dropped sessions with out-of-range progress", "count", dropped)
	}
	metrics.ActiveSessions.Set(float64(count))
	m.log.Info("session store loaded", "sessions", count)

	sweepCtx, cancel := context.WithCancel(context.Background())
	m.cancelSweep = cancel
	m.sweepDone = make(chan struct{})
	go m.sweep(sweepCtx)

	return nil
}

// Stop joins the sweep, then runs one final cleanup and persist.
func (m *DefaultManager) Stop(ctx context.Context) error {
	if m.cancelSweep != nil {
		m.cancelSweep()
		select {
		case <-m.sweepDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	return m.repo.Save(ctx, m.sessions)
}

// sweep periodically removes expired sessions and re-persists. This is
// a liveness optimization on top of the per-read expiry check.
func (m *DefaultManager) sweep(ctx context.Context) {
	defer close(m.sweepDone)

	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			removed := m.expireLocked()
			if removed > 0 {
				m.persistLocked(ctx)
			}
			if _, err := m.repo.Backup(ctx, m.sessions); err != nil {
				m.log.Warn("backup failed", "error", err)
			}
			m.mu.Unlock()

			if removed > 0 {
				m.log.Info("cleanup removed expired sessions", "count", removed)
			}
		}
	}
}

// expired applies the strict TTL predicate.
func (m *DefaultManager) expired(s *domain.Session) bool {
	return m.clk.Now().Sub(s.LastActivity) > m.cfg.TTL
}

// expireLocked removes expired sessions; caller holds m.mu.
func (m *DefaultManager) expireLocked() int {
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			delete(m.reminded, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ExpiredSessions.Add(float64(removed))
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	return removed
}

// validSession checks that a loaded session's cursors stay inside the
// questionnaire. Only a hand-edited or corrupt snapshot can put them
// outside, and serving such a session would index past the question
// lists.
func (m *DefaultManager) validSession(s *domain.Session) bool {
	adam := m.catalog.Count(domain.StateAdam)
	ams := m.catalog.Count(domain.StateAMS)
	lifestyle := m.catalog.Count(domain.StateLifestyle)

	if !KnownState(s.State) {
		return false
	}
	if len(s.AdamAnswers) > adam ||
		s.AMSIndex < 0 || s.AMSIndex > ams ||
		s.LifestyleIndex < 0 || s.LifestyleIndex > lifestyle {
		return false
	}

	// Sections still being answered must point at a real question.
	switch s.State {
	case domain.StateAdam:
		return len(s.AdamAnswers) < adam
	case domain.StateAMS:
		return s.AMSIndex < ams
	case domain.StateLifestyle:
		return s.LifestyleIndex < lifestyle
	}
	return true
}

// dropInvalidLocked removes sessions that fail validSession; caller
// holds m.mu.
func (m *DefaultManager) dropInvalidLocked() int {
	dropped := 0
	for id, s := range m.sessions {
		if !m.validSession(s) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// persistLocked writes the snapshot; caller holds m.mu. Write failures
// are logged, not returned: the in-memory state stays authoritative
// until the next successful write.
func (m *DefaultManager) persistLocked(ctx context.Context) {
	start := time.Now()
	if err := m.repo.Save(ctx, m.sessions); err != nil {
		m.log.Error("failed to persist snapshot", "error", err)
		return
	}
	metrics.SnapshotWrites.Observe(time.Since(start).Seconds())
}

// SaveProgress upserts the session, records the declared state, merges
// the payload, and persists.
func (m *DefaultManager) SaveProgress(ctx context.Context, userID int64, state domain.SessionState, upd domain.ProgressUpdate) error {
	if !KnownState(state) {
		return fmt.Errorf("%w: %q", ErrUnknownState, state)
	}

	now := m.clk.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if ok && m.expired(s) {
		delete(m.sessions, userID)
		ok = false
	}
	if !ok {
		s = &domain.Session{
			UserID:    userID,
			Lifestyle: make(map[string]any),
			StartTime: now,
		}
		m.sessions[userID] = s
	}

	if !CanTransition(s.State, state) && s.State != "" {
		m.log.Warn("unusual state transition recorded",
			"user_id", userID, "from", s.State, "to", state)
	}

	s.State = state
	s.LastActivity = now
	delete(m.reminded, userID)
	if upd.AdamAnswers != nil {
		s.AdamAnswers = append([]bool(nil), upd.AdamAnswers...)
	}
	if upd.AMSScore != nil {
		s.AMSScore = *upd.AMSScore
	}
	if upd.AMSIndex != nil {
		s.AMSIndex = *upd.AMSIndex
	}
	if upd.Lifestyle != nil {
		for k, v := range upd.Lifestyle {
			s.Lifestyle[k] = v
		}
	}
	if upd.LifestyleIndex != nil {
		s.LifestyleIndex = *upd.LifestyleIndex
	}

	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.persistLocked(ctx)
	return nil
}

// LoadProgress returns a copy of the live session, lazily expiring it
// if the TTL has passed.
func (m *DefaultManager) LoadProgress(ctx context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(s) {
		delete(m.sessions, userID)
		delete(m.reminded, userID)
		metrics.ExpiredSessions.Inc()
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		m.persistLocked(ctx)
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

// ClearUser removes the session and persists. Clearing an absent user
// is a no-op.
func (m *DefaultManager) ClearUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[userID]; ok {
		delete(m.sessions, userID)
		delete(m.reminded, userID)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		m.persistLocked(ctx)
	}
	return nil
}

// IdleSessions returns users with an unfinished questionnaire idle
// past threshold, marking each so it is not reported again until the
// user acts.
func (m *DefaultManager) IdleSessions(threshold time.Duration) []int64 {
	now := m.clk.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var idle []int64
	for id, s := range m.sessions {
		if s.State == domain.StateCompleted || s.State == domain.StateResults {
			continue
		}
		if _, sent := m.reminded[id]; sent {
			continue
		}
		if m.expired(s) {
			continue
		}
		if now.Sub(s.LastActivity) >= threshold {
			idle = append(idle, id)
			m.reminded[id] = struct{}{}
		}
	}
	return idle
}
