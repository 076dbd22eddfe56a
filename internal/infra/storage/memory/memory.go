// Package memory provides an in-memory SnapshotRepository for tests and
// ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

// Repo keeps the last saved snapshot in memory.
type Repo struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
	backups  int
}

// NewRepo creates an empty in-memory repository.
func NewRepo() *Repo {
	return &Repo{sessions: make(map[int64]*domain.Session)}
}

// Load returns a copy of the last saved snapshot.
func (r *Repo) Load(_ context.Context) (map[int64]*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]*domain.Session, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = s.Clone()
	}
	return out, nil
}

// Save replaces the stored snapshot with a copy of sessions.
func (r *Repo) Save(_ context.Context, sessions map[int64]*domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make(map[int64]*domain.Session, len(sessions))
	for id, s := range sessions {
		stored[id] = s.Clone()
	}
	r.sessions = stored
	return nil
}

// Backup counts backups without retaining copies.
func (r *Repo) Backup(_ context.Context, sessions map[int64]*domain.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backups++
	return fmt.Sprintf("memory://backup/%d", r.backups), nil
}
