// Package control assembles the application and manages its
// lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/ferranmt/saludbot/internal/bot"
	"github.com/ferranmt/saludbot/internal/core/clock"
	"github.com/ferranmt/saludbot/internal/core/config"
	"github.com/ferranmt/saludbot/internal/core/session"
	"github.com/ferranmt/saludbot/internal/health"
	"github.com/ferranmt/saludbot/internal/infra/storage/snapshot"
	"github.com/ferranmt/saludbot/internal/questionnaire"
	"github.com/ferranmt/saludbot/internal/resilience"
	"github.com/ferranmt/saludbot/internal/security"
	"github.com/ferranmt/saludbot/internal/transport/telegram"
	"github.com/ferranmt/saludbot/internal/validation"
)

// App is the assembled bot: session store, security layer, transport,
// poller, and the health endpoint.
type App struct {
	cfg          config.AppConfig
	sessions     session.Manager
	events       *security.EventLog
	poller       *bot.Poller
	reminder     *bot.Reminder
	healthServer *health.Server
	log          *slog.Logger

	running    atomic.Bool
	cancelPoll context.CancelFunc
	pollDone   chan struct{}
	remindDone chan struct{}
}

// NewApp wires every component from the loaded configuration.
func NewApp(cfg config.AppConfig) (*App, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	repo, err := snapshot.NewRepo(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to init snapshot storage: %w", err)
	}

	clk := clock.System{}
	catalog := questionnaire.NewBuiltin()
	sessions := session.NewManager(repo, clk, catalog, cfg.Session)

	events := security.NewEventLog()
	secManager := security.NewManager(clk, events)
	limiter := security.NewRateLimiter(cfg.Bot.RateLimitPerMinute, clk, events)
	validator := validation.NewLayer(secManager, cfg.Validation)

	tg, err := telegram.New(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram transport: %w", err)
	}

	policy := resilience.DefaultPolicy
	if cfg.Bot.MaxRetries > 0 {
		policy.MaxRetries = cfg.Bot.MaxRetries
	}

	handler := bot.NewHandler(sessions, validator, limiter, catalog, tg, policy, clk)

	app := &App{
		cfg:      cfg,
		sessions: sessions,
		events:   events,
		poller:   bot.NewPoller(tg.API(), handler),
		reminder: bot.NewReminder(handler, cfg.Session.ReminderAfter),
		log:      slog.With("component", "app"),
	}
	app.healthServer = health.NewServer(app, cfg.Server.Port)
	return app, nil
}

// Healthy reports whether the app is serving traffic.
func (a *App) Healthy() bool {
	return a.running.Load()
}

// Events exposes the security event log for inspection.
func (a *App) Events() *security.EventLog {
	return a.events
}

// Start loads persisted sessions, launches the health server, and
// begins polling for updates.
func (a *App) Start(ctx context.Context) error {
	if err := a.sessions.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session manager: %w", err)
	}

	go func() {
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("health server failed", "error", err)
		}
	}()

	pollCtx, cancel := context.WithCancel(context.Background())
	a.cancelPoll = cancel
	a.pollDone = make(chan struct{})
	go func() {
		defer close(a.pollDone)
		a.poller.Run(pollCtx)
	}()

	a.remindDone = make(chan struct{})
	go func() {
		defer close(a.remindDone)
		a.reminder.Run(pollCtx)
	}()

	a.running.Store(true)
	a.log.Info("bot started", "port", a.cfg.Server.Port)
	return nil
}

// Stop shuts the poller down, persists sessions one last time, and
// closes the health server.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping bot")
	a.running.Store(false)

	if a.cancelPoll != nil {
		a.cancelPoll()
		select {
		case <-a.pollDone:
		case <-ctx.Done():
			a.log.Warn("poller did not stop in time")
		}
		select {
		case <-a.remindDone:
		case <-ctx.Done():
		}
	}

	if err := a.sessions.Stop(ctx); err != nil {
		a.log.Warn("session manager stop failed", "error", err)
	}

	return a.healthServer.Stop(ctx)
}
