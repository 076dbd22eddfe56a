package storage

import (
	"context"
	"errors"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

var (
	// ErrCorruptSnapshot is returned when a snapshot cannot be decoded.
	// Callers treat it as "no prior data".
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// SnapshotRepository persists the full session map as one document.
type SnapshotRepository interface {
	// Load reads the last written snapshot. A missing or corrupt
	// snapshot yields an empty map, never a fatal error.
	Load(ctx context.Context) (map[int64]*domain.Session, error)

	// Save atomically replaces the snapshot with the given sessions.
	Save(ctx context.Context, sessions map[int64]*domain.Session) error

	// Backup writes a timestamped copy alongside the live snapshot and
	// prunes old copies. Returns the backup location.
	Backup(ctx context.Context, sessions map[int64]*domain.Session) (string, error)
}
