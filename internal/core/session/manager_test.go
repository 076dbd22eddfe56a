package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/infra/storage/memory"
	"github.com/ferranmt/saludbot/internal/questionnaire"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestManager(t *testing.T) (*DefaultManager, *memory.Repo, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepo()
	m := NewManager(repo, clk, questionnaire.NewBuiltin(), Config{TTL: 24 * time.Hour, CleanupInterval: time.Hour})
	return m, repo, clk
}

func intPtr(n int) *int { return &n }

func TestSaveAndLoadProgress(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	err := m.SaveProgress(ctx, 100, domain.StateAdam, domain.ProgressUpdate{
		AdamAnswers: []bool{true, false, true},
	})
	if err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}

	s, err := m.LoadProgress(ctx, 100)
	if err != nil {
		t.Fatalf("LoadProgress failed: %v", err)
	}
	if s.State != domain.StateAdam {
		t.Errorf("state = %q, want adam", s.State)
	}
	if len(s.AdamAnswers) != 3 || !s.AdamAnswers[0] || s.AdamAnswers[1] || !s.AdamAnswers[2] {
		t.Errorf("adam answers = %v, want [true false true]", s.AdamAnswers)
	}
}

func TestSaveProgressMergesFields(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{AdamAnswers: []bool{true}}); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveProgress(ctx, 1, domain.StateAMS, domain.ProgressUpdate{AMSScore: intPtr(12), AMSIndex: intPtr(4)}); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveProgress(ctx, 1, domain.StateLifestyle, domain.ProgressUpdate{
		Lifestyle:      map[string]any{"age": 30},
		LifestyleIndex: intPtr(1),
	}); err != nil {
		t.Fatal(err)
	}

	s, err := m.LoadProgress(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.AdamAnswers) != 1 || !s.AdamAnswers[0] {
		t.Errorf("earlier section lost: adam answers = %v", s.AdamAnswers)
	}
	if s.AMSScore != 12 || s.AMSIndex != 4 {
		t.Errorf("ams = (%d, %d), want (12, 4)", s.AMSScore, s.AMSIndex)
	}
	if s.Lifestyle["age"] != 30 || s.LifestyleIndex != 1 {
		t.Errorf("lifestyle = %v idx %d", s.Lifestyle, s.LifestyleIndex)
	}
	if s.State != domain.StateLifestyle {
		t.Errorf("state = %q, want lifestyle", s.State)
	}
}

func TestSaveProgressRejectsUnknownState(t *testing.T) {
	m, _, _ := newTestManager(t)

	err := m.SaveProgress(context.Background(), 1, "limbo", domain.ProgressUpdate{})
	if !errors.Is(err, ErrUnknownState) {
		t.Errorf("err = %v, want ErrUnknownState", err)
	}
}

func TestLoadProgressNotFound(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.LoadProgress(context.Background(), 404)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestLoadProgressReturnsCopy(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{AdamAnswers: []bool{true}}); err != nil {
		t.Fatal(err)
	}

	s1, _ := m.LoadProgress(ctx, 1)
	s1.AdamAnswers[0] = false
	s1.Lifestyle["leak"] = true

	s2, _ := m.LoadProgress(ctx, 1)
	if !s2.AdamAnswers[0] {
		t.Error("mutating a loaded session changed the store")
	}
	if _, ok := s2.Lifestyle["leak"]; ok {
		t.Error("mutating a loaded map changed the store")
	}
}

func TestTTLBoundaryIsStrict(t *testing.T) {
	m, _, clk := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}

	// At exactly the TTL the session is still alive.
	clk.advance(24 * time.Hour)
	if _, err := m.LoadProgress(ctx, 1); err != nil {
		t.Fatalf("session expired at exactly TTL: %v", err)
	}

	// Loading refreshed nothing: LastActivity only moves on writes.
	clk.advance(time.Nanosecond)
	if _, err := m.LoadProgress(ctx, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound past TTL", err)
	}

	// The lazy expiry removed it for good.
	clk.advance(-25 * time.Hour)
	if _, err := m.LoadProgress(ctx, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expired session came back")
	}
}

func TestSaveProgressRecreatesExpiredSession(t *testing.T) {
	m, _, clk := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAMS, domain.ProgressUpdate{AMSScore: intPtr(40)}); err != nil {
		t.Fatal(err)
	}

	clk.advance(25 * time.Hour)
	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}

	s, err := m.LoadProgress(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.AMSScore != 0 {
		t.Errorf("stale score %d survived expiry", s.AMSScore)
	}
	if !s.StartTime.Equal(clk.Now()) {
		t.Errorf("start time = %v, want reset to %v", s.StartTime, clk.Now())
	}
}

func TestClearUserIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := m.ClearUser(ctx, 1); err != nil {
		t.Fatalf("ClearUser failed: %v", err)
	}
	if _, err := m.LoadProgress(ctx, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("session survived ClearUser")
	}
	if err := m.ClearUser(ctx, 1); err != nil {
		t.Errorf("second ClearUser errored: %v", err)
	}
	if err := m.ClearUser(ctx, 999); err != nil {
		t.Errorf("clearing an absent user errored: %v", err)
	}
}

func TestStartRestoresPersistedSessions(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepo()
	catalog := questionnaire.NewBuiltin()
	cfg := Config{TTL: 24 * time.Hour, CleanupInterval: time.Hour}
	ctx := context.Background()

	first := NewManager(repo, clk, catalog, cfg)
	if err := first.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.SaveProgress(ctx, 1, domain.StateAMS, domain.ProgressUpdate{AMSScore: intPtr(22), AMSIndex: intPtr(8)}); err != nil {
		t.Fatal(err)
	}
	if err := first.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	second := NewManager(repo, clk, catalog, cfg)
	if err := second.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer second.Stop(ctx)

	s, err := second.LoadProgress(ctx, 1)
	if err != nil {
		t.Fatalf("restored session missing: %v", err)
	}
	if s.AMSScore != 22 || s.AMSIndex != 8 {
		t.Errorf("restored ams = (%d, %d), want (22, 8)", s.AMSScore, s.AMSIndex)
	}
}

func TestStartDropsExpiredSessions(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepo()
	catalog := questionnaire.NewBuiltin()
	cfg := Config{TTL: 24 * time.Hour, CleanupInterval: time.Hour}
	ctx := context.Background()

	first := NewManager(repo, clk, catalog, cfg)
	if err := first.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := first.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	clk.advance(25 * time.Hour)
	second := NewManager(repo, clk, catalog, cfg)
	if err := second.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer second.Stop(ctx)

	if _, err := second.LoadProgress(ctx, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expired session survived restart")
	}
}

func TestGetProgressInfo(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAMS, domain.ProgressUpdate{
		AdamAnswers: []bool{true, false, true, false, true, false, true, false, true, false},
		AMSScore:    intPtr(15),
		AMSIndex:    intPtr(5),
	}); err != nil {
		t.Fatal(err)
	}

	info, err := m.GetProgressInfo(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if info.TotalQuestions != 17 {
		t.Errorf("section questions = %d, want 17", info.TotalQuestions)
	}
	if info.CurrentQuestion != 6 {
		t.Errorf("current question = %d, want 6", info.CurrentQuestion)
	}
	// 10 ADAM + 5 AMS answered out of 33 overall.
	if got := int(info.PercentComplete); got != 45 {
		t.Errorf("percent = %d, want 45", got)
	}
	if info.Message() == "" {
		t.Error("empty progress message")
	}
}

func TestGetProgressInfoNotFound(t *testing.T) {
	m, _, _ := newTestManager(t)

	if _, err := m.GetProgressInfo(context.Background(), 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestIdleSessionsReportsOncePerIdleStretch(t *testing.T) {
	m, _, clk := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{AdamAnswers: []bool{true}}); err != nil {
		t.Fatal(err)
	}

	if idle := m.IdleSessions(30 * time.Minute); len(idle) != 0 {
		t.Fatalf("idle right after activity = %v, want none", idle)
	}

	clk.advance(31 * time.Minute)
	idle := m.IdleSessions(30 * time.Minute)
	if len(idle) != 1 || idle[0] != 1 {
		t.Fatalf("idle = %v, want [1]", idle)
	}

	// No repeat until the user acts again.
	clk.advance(time.Hour)
	if idle := m.IdleSessions(30 * time.Minute); len(idle) != 0 {
		t.Fatalf("second sweep = %v, want none", idle)
	}

	// Fresh activity re-arms the reminder.
	if err := m.SaveProgress(ctx, 1, domain.StateAdam, domain.ProgressUpdate{AdamAnswers: []bool{true, false}}); err != nil {
		t.Fatal(err)
	}
	clk.advance(31 * time.Minute)
	if idle := m.IdleSessions(30 * time.Minute); len(idle) != 1 {
		t.Fatalf("after re-arm = %v, want [1]", idle)
	}
}

func TestIdleSessionsSkipsCompletedAndExpired(t *testing.T) {
	m, _, clk := newTestManager(t)
	ctx := context.Background()

	if err := m.SaveProgress(ctx, 1, domain.StateCompleted, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveProgress(ctx, 2, domain.StateAMS, domain.ProgressUpdate{AMSIndex: intPtr(3)}); err != nil {
		t.Fatal(err)
	}

	clk.advance(25 * time.Hour)
	if idle := m.IdleSessions(30 * time.Minute); len(idle) != 0 {
		t.Errorf("expired sessions reported idle: %v", idle)
	}

	if err := m.SaveProgress(ctx, 3, domain.StateCompleted, domain.ProgressUpdate{}); err != nil {
		t.Fatal(err)
	}
	clk.advance(time.Hour)
	if idle := m.IdleSessions(30 * time.Minute); len(idle) != 0 {
		t.Errorf("completed session reported idle: %v", idle)
	}
}

func TestStartDropsOutOfRangeCursors(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepo()
	catalog := questionnaire.NewBuiltin()
	ctx := context.Background()

	// A snapshot can only carry these cursors if it was corrupted or
	// edited by hand; serving them would index past the question lists.
	seed := map[int64]*domain.Session{
		1: {
			UserID: 1, State: domain.StateLifestyle,
			LifestyleIndex: 6, Lifestyle: map[string]any{},
			StartTime: clk.now, LastActivity: clk.now,
		},
		2: {
			UserID: 2, State: domain.StateAdam,
			AdamAnswers: make([]bool, 10), Lifestyle: map[string]any{},
			StartTime: clk.now, LastActivity: clk.now,
		},
		3: {
			UserID: 3, State: domain.StateAMS,
			AMSIndex: -1, Lifestyle: map[string]any{},
			StartTime: clk.now, LastActivity: clk.now,
		},
		4: {
			UserID: 4, State: domain.StateAMS,
			AMSScore: 12, AMSIndex: 5, Lifestyle: map[string]any{},
			StartTime: clk.now, LastActivity: clk.now,
		},
	}
	if err := repo.Save(ctx, seed); err != nil {
		t.Fatal(err)
	}

	m := NewManager(repo, clk, catalog, Config{TTL: 24 * time.Hour, CleanupInterval: time.Hour})
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer m.Stop(ctx)

	for _, id := range []int64{1, 2, 3} {
		if _, err := m.LoadProgress(ctx, id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("user %d with out-of-range cursor survived load: %v", id, err)
		}
	}

	s, err := m.LoadProgress(ctx, 4)
	if err != nil {
		t.Fatalf("in-range session dropped: %v", err)
	}
	if s.AMSIndex != 5 || s.AMSScore != 12 {
		t.Errorf("restored ams = (%d, %d), want (12, 5)", s.AMSScore, s.AMSIndex)
	}
}
