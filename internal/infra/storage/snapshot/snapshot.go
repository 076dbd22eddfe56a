// Package snapshot stores the session map as a single JSON document on
// disk. Writes go to a temp file first and are renamed into place, so a
// crash mid-write leaves the previous snapshot intact.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

// Config holds file locations and backup retention.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	BackupDir  string `yaml:"backup_dir"`
	MaxBackups int    `yaml:"max_backups"`
}

const snapshotFile = "sessions.json"

// Repo is a file-backed SnapshotRepository.
type Repo struct {
	cfg Config
	log *slog.Logger
}

// NewRepo creates the data and backup directories if needed.
func NewRepo(cfg Config) (*Repo, error) {
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 10
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.DataDir, "backups")
	}
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}
	return &Repo{cfg: cfg, log: slog.Default().With("component", "snapshot")}, nil
}

// record is the on-disk shape of one session.
type record struct {
	State          string         `json:"state"`
	AdamAnswers    []bool         `json:"adamAnswers"`
	AMSScore       int            `json:"amsScore"`
	AMSIndex       int            `json:"amsQuestionIndex"`
	Lifestyle      map[string]any `json:"lifestyleAnswers"`
	LifestyleIndex int            `json:"lifestyleQuestionIndex"`
	StartTime      time.Time      `json:"startTime"`
	LastActivity   time.Time      `json:"lastActivity"`
}

// backupDoc wraps a snapshot with backup metadata.
type backupDoc struct {
	Timestamp    string            `json:"timestamp"`
	EntriesCount int               `json:"entriesCount"`
	Data         map[string]record `json:"data"`
}

func encode(sessions map[int64]*domain.Session) map[string]record {
	out := make(map[string]record, len(sessions))
	for id, s := range sessions {
		out[strconv.FormatInt(id, 10)] = record{
			State:          string(s.State),
			AdamAnswers:    s.AdamAnswers,
			AMSScore:       s.AMSScore,
			AMSIndex:       s.AMSIndex,
			Lifestyle:      s.Lifestyle,
			LifestyleIndex: s.LifestyleIndex,
			StartTime:      s.StartTime,
			LastActivity:   s.LastActivity,
		}
	}
	return out
}

func (r *Repo) path() string {
	return filepath.Join(r.cfg.DataDir, snapshotFile)
}

// Load reads the live snapshot. Missing or undecodable files are logged
// and treated as an empty store.
func (r *Repo) Load(_ context.Context) (map[int64]*domain.Session, error) {
	sessions := make(map[int64]*domain.Session)

	data, err := os.ReadFile(r.path())
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("could not read snapshot, starting empty", "path", r.path(), "error", err)
		}
		return sessions, nil
	}

	var records map[string]record
	if err := json.Unmarshal(data, &records); err != nil {
		r.log.Warn("corrupt snapshot, starting empty", "path", r.path(), "error", err)
		return sessions, nil
	}

	for key, rec := range records {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			r.log.Warn("skipping snapshot entry with bad user id", "key", key)
			continue
		}
		sessions[id] = decode(id, rec)
	}
	return sessions, nil
}

func decode(id int64, rec record) *domain.Session {
	s := &domain.Session{
		UserID:         id,
		State:          domain.SessionState(rec.State),
		AdamAnswers:    rec.AdamAnswers,
		AMSScore:       rec.AMSScore,
		AMSIndex:       rec.AMSIndex,
		Lifestyle:      rec.Lifestyle,
		LifestyleIndex: rec.LifestyleIndex,
		StartTime:      rec.StartTime,
		LastActivity:   rec.LastActivity,
	}
	if s.Lifestyle == nil {
		s.Lifestyle = make(map[string]any)
	}
	return s
}

// Save writes the snapshot atomically: marshal, write temp, rename.
func (r *Repo) Save(_ context.Context, sessions map[int64]*domain.Session) error {
	data, err := json.MarshalIndent(encode(sessions), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := r.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Backup writes a timestamped copy with entry-count metadata, then
// prunes the oldest copies past the retention limit.
func (r *Repo) Backup(_ context.Context, sessions map[int64]*domain.Session) (string, error) {
	now := time.Now()
	doc := backupDoc{
		Timestamp:    now.Format("20060102_150405"),
		EntriesCount: len(sessions),
		Data:         encode(sessions),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	path := filepath.Join(r.cfg.BackupDir, fmt.Sprintf("backup_%s.json", doc.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := r.pruneBackups(); err != nil {
		r.log.Warn("failed to prune old backups", "error", err)
	}
	return path, nil
}

func (r *Repo) pruneBackups() error {
	entries, err := filepath.Glob(filepath.Join(r.cfg.BackupDir, "backup_*.json"))
	if err != nil {
		return err
	}
	if len(entries) <= r.cfg.MaxBackups {
		return nil
	}

	type backup struct {
		path  string
		mtime time.Time
	}
	backups := make([]backup, 0, len(entries))
	for _, p := range entries {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: p, mtime: info.ModTime()})
	}

	// Oldest first
	sort.Slice(backups, func(i, j int) bool { return backups[i].mtime.Before(backups[j].mtime) })

	for _, b := range backups[:len(backups)-r.cfg.MaxBackups] {
		if err := os.Remove(b.path); err != nil {
			r.log.Warn("failed to remove old backup", "path", b.path, "error", err)
			continue
		}
		r.log.Info("removed old backup", "path", b.path)
	}
	return nil
}
