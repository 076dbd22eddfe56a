package bot

import (
	"context"
	"log/slog"
	"time"
)

// reminderCheckInterval bounds how late a nudge can arrive after the
// idle threshold passes.
const reminderCheckInterval = 5 * time.Minute

// Reminder periodically nudges users who left a questionnaire
// unfinished. Private chats share the user's ID, so the nudge goes
// straight back to the conversation it came from.
type Reminder struct {
	handler *Handler
	after   time.Duration
	log     *slog.Logger
}

// NewReminder builds a reminder worker with the given idle threshold.
func NewReminder(h *Handler, after time.Duration) *Reminder {
	if after <= 0 {
		after = 30 * time.Minute
	}
	return &Reminder{
		handler: h,
		after:   after,
		log:     slog.With("component", "reminder"),
	}
}

// Run blocks until ctx is cancelled, sweeping for idle sessions on
// every tick.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(reminderCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.handler.RemindIdle(ctx, r.after); n > 0 {
				r.log.Info("inactivity reminders sent", "count", n)
			}
		}
	}
}

// RemindIdle sends a nudge to every user whose questionnaire has been
// idle past threshold and reports how many went out.
func (h *Handler) RemindIdle(ctx context.Context, threshold time.Duration) int {
	idle := h.sessions.IdleSessions(threshold)
	for _, userID := range idle {
		h.send(ctx, userID, inactivityReminderMessage, nil)
	}
	return len(idle)
}
