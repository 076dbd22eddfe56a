// Package bot drives the questionnaire conversation: commands,
// button taps, and typed answers come in, session state advances, and
// replies go out through the transport with retries.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ferranmt/saludbot/internal/core/clock"
	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/core/session"
	"github.com/ferranmt/saludbot/internal/questionnaire"
	"github.com/ferranmt/saludbot/internal/resilience"
	"github.com/ferranmt/saludbot/internal/security"
	"github.com/ferranmt/saludbot/internal/transport"
	"github.com/ferranmt/saludbot/internal/validation"
)

// Callback payloads understood by the conversation.
const (
	cbStartYes     = "start_yes"
	cbStartNo      = "start_no"
	cbContinue     = "continue_yes"
	cbStartFresh   = "start_fresh"
	cbAdamYes      = "adam_yes"
	cbAdamNo       = "adam_no"
	cbLifestyleYes = "ls_yes"
	cbLifestyleNo  = "ls_no"
)

// Handler routes one user interaction through rate limiting,
// validation, and the session store, then replies.
type Handler struct {
	sessions  session.Manager
	validator *validation.Layer
	limiter   *security.RateLimiter
	catalog   questionnaire.Catalog
	sender    transport.Transport
	retry     resilience.Policy
	clk       clock.Clock
	log       *slog.Logger
}

// NewHandler wires the conversation over its collaborators.
func NewHandler(
	sessions session.Manager,
	validator *validation.Layer,
	limiter *security.RateLimiter,
	catalog questionnaire.Catalog,
	sender transport.Transport,
	retry resilience.Policy,
	clk clock.Clock,
) *Handler {
	return &Handler{
		sessions:  sessions,
		validator: validator,
		limiter:   limiter,
		catalog:   catalog,
		sender:    sender,
		retry:     retry,
		clk:       clk,
		log:       slog.With("component", "bot"),
	}
}

// HandleCommand processes a slash command.
func (h *Handler) HandleCommand(ctx context.Context, userID, chatID int64, command string) {
	if !h.admit(ctx, userID, chatID) {
		return
	}

	switch command {
	case "start":
		h.handleStart(ctx, userID, chatID)
	case "status":
		h.handleStatus(ctx, userID, chatID)
	case "cancel":
		if err := h.sessions.ClearUser(ctx, userID); err != nil {
			h.log.Error("clear user failed", "user_id", userID, "error", err)
		}
		h.validator.ResetRetries(userID, "")
		h.send(ctx, chatID, cancelledMessage, nil)
	default:
		h.send(ctx, chatID, "Comando no reconocido. Usa /start, /status o /cancel.", nil)
	}
}

// HandleCallback processes an inline button tap. messageID is the
// message carrying the buttons, so prompts can be edited in place.
func (h *Handler) HandleCallback(ctx context.Context, userID, chatID int64, messageID int, data string) {
	if !h.admit(ctx, userID, chatID) {
		return
	}

	switch data {
	case cbStartYes:
		h.beginQuestionnaire(ctx, userID, chatID, messageID)
	case cbStartNo:
		h.edit(ctx, chatID, messageID, declinedMessage, nil)
	case cbContinue:
		h.resumeQuestionnaire(ctx, userID, chatID, messageID)
	case cbStartFresh:
		if err := h.sessions.ClearUser(ctx, userID); err != nil {
			h.log.Error("clear user failed", "user_id", userID, "error", err)
		}
		h.beginQuestionnaire(ctx, userID, chatID, messageID)
	case cbAdamYes, cbAdamNo:
		h.handleAdamAnswer(ctx, userID, chatID, messageID, data == cbAdamYes)
	case cbLifestyleYes, cbLifestyleNo:
		h.handleLifestyleTap(ctx, userID, chatID, data == cbLifestyleYes)
	default:
		h.log.Debug("unknown callback ignored", "user_id", userID, "data", data)
	}
}

// HandleText processes a typed message as the answer to the current
// question.
func (h *Handler) HandleText(ctx context.Context, userID, chatID int64, text string) {
	if !h.admit(ctx, userID, chatID) {
		return
	}

	s, err := h.sessions.LoadProgress(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			h.send(ctx, chatID, noActiveSessionMessage, nil)
			return
		}
		h.log.Error("load progress failed", "user_id", userID, "error", err)
		h.send(ctx, chatID, resilience.MessageFor(resilience.KindSystem).Message, nil)
		return
	}

	switch s.State {
	case domain.StateAMS:
		h.handleAMSAnswer(ctx, userID, chatID, s, text)
	case domain.StateLifestyle:
		h.handleLifestyleAnswer(ctx, userID, chatID, s, text)
	case domain.StateAdam:
		h.send(ctx, chatID, useButtonsMessage, nil)
		h.askAdam(ctx, chatID, 0, len(s.AdamAnswers), false)
	case domain.StateStart:
		h.send(ctx, chatID, welcomeMessage, startButtons())
	default:
		h.send(ctx, chatID, alreadyCompletedMessage, nil)
	}
}

// admit applies the per-user rate limit. The first rejected message
// after a block starts gets a notice; further ones are dropped
// silently so the block cannot be used to generate traffic.
func (h *Handler) admit(ctx context.Context, userID, chatID int64) bool {
	blockedBefore := h.limiter.BlockedUntil(userID).After(h.clk.Now())
	if h.limiter.Admit(userID) {
		return true
	}
	if !blockedBefore {
		msg := resilience.MessageFor(resilience.KindRateLimit)
		h.send(ctx, chatID, msg.Message+"\n\n"+msg.Help, nil)
	}
	return false
}

func (h *Handler) handleStart(ctx context.Context, userID, chatID int64) {
	s, err := h.sessions.LoadProgress(ctx, userID)
	if err == nil && inProgress(s.State) {
		info, infoErr := h.sessions.GetProgressInfo(ctx, userID)
		if infoErr == nil {
			h.send(ctx, chatID, recoveryMessage(info.Message()), [][]transport.Button{{
				{Label: "✅ Continuar", Data: cbContinue},
				{Label: "🔄 Empezar de nuevo", Data: cbStartFresh},
			}})
			return
		}
	}
	h.send(ctx, chatID, welcomeMessage, startButtons())
}

func (h *Handler) handleStatus(ctx context.Context, userID, chatID int64) {
	info, err := h.sessions.GetProgressInfo(ctx, userID)
	if err != nil {
		h.send(ctx, chatID, noActiveSessionMessage, nil)
		return
	}
	h.send(ctx, chatID, info.Message(), nil)
}

// beginQuestionnaire resets any prior progress and asks the first ADAM
// question in place of the invitation message.
func (h *Handler) beginQuestionnaire(ctx context.Context, userID, chatID int64, messageID int) {
	if err := h.sessions.ClearUser(ctx, userID); err != nil {
		h.log.Error("clear user failed", "user_id", userID, "error", err)
	}
	h.validator.ResetRetries(userID, "")

	zero := 0
	err := h.sessions.SaveProgress(ctx, userID, domain.StateAdam, domain.ProgressUpdate{
		AdamAnswers:    []bool{},
		AMSScore:       &zero,
		AMSIndex:       &zero,
		LifestyleIndex: &zero,
	})
	if err != nil {
		h.log.Error("save progress failed", "user_id", userID, "error", err)
		h.send(ctx, chatID, resilience.MessageFor(resilience.KindSystem).Message, nil)
		return
	}

	h.edit(ctx, chatID, messageID, h.catalog.Questions(domain.StateAdam)[0], adamButtons())
}

// resumeQuestionnaire restores a recovered session at its current
// question.
func (h *Handler) resumeQuestionnaire(ctx context.Context, userID, chatID int64, messageID int) {
	s, err := h.sessions.LoadProgress(ctx, userID)
	if err != nil {
		h.beginQuestionnaire(ctx, userID, chatID, messageID)
		return
	}

	if info, infoErr := h.sessions.GetProgressInfo(ctx, userID); infoErr == nil {
		h.edit(ctx, chatID, messageID, info.Message(), nil)
	}
	h.send(ctx, chatID, continuingMessage, nil)
	h.askCurrent(ctx, chatID, s)
}

// askCurrent re-asks the question the session is parked on.
func (h *Handler) askCurrent(ctx context.Context, chatID int64, s *domain.Session) {
	switch s.State {
	case domain.StateAdam:
		h.askAdam(ctx, chatID, 0, len(s.AdamAnswers), false)
	case domain.StateAMS:
		h.askAMS(ctx, chatID, s, s.AMSIndex)
	case domain.StateLifestyle:
		h.askLifestyle(ctx, chatID, s, s.LifestyleIndex)
	default:
		h.send(ctx, chatID, welcomeMessage, startButtons())
	}
}

func (h *Handler) handleAdamAnswer(ctx context.Context, userID, chatID int64, messageID int, yes bool) {
	s, err := h.sessions.LoadProgress(ctx, userID)
	if err != nil {
		h.edit(ctx, chatID, messageID, expiredSessionMessage, nil)
		return
	}
	if s.State != domain.StateAdam {
		h.askCurrent(ctx, chatID, s)
		return
	}

	answers := append(s.AdamAnswers, yes)
	if len(answers) < h.catalog.Count(domain.StateAdam) {
		if err := h.sessions.SaveProgress(ctx, userID, domain.StateAdam, domain.ProgressUpdate{AdamAnswers: answers}); err != nil {
			h.log.Error("save progress failed", "user_id", userID, "error", err)
			return
		}
		h.askAdam(ctx, chatID, messageID, len(answers), true)
		return
	}

	// ADAM done, move to AMS.
	zero := 0
	if err := h.sessions.SaveProgress(ctx, userID, domain.StateAMS, domain.ProgressUpdate{AdamAnswers: answers, AMSIndex: &zero}); err != nil {
		h.log.Error("save progress failed", "user_id", userID, "error", err)
		return
	}

	yesCount := 0
	for _, a := range answers {
		if a {
			yesCount++
		}
	}
	h.edit(ctx, chatID, messageID, adamCompletedMessage(yesCount), nil)

	s.AdamAnswers = answers
	h.askAMS(ctx, chatID, s, 0)
}

// askAdam shows ADAM question idx with yes/no buttons, either editing
// the tapped message or sending a fresh one.
func (h *Handler) askAdam(ctx context.Context, chatID int64, messageID, idx int, editInPlace bool) {
	questions := h.catalog.Questions(domain.StateAdam)
	text := questionPrompt(idx, h.catalog.TotalQuestions(),
		h.catalog.SectionName(domain.StateAdam), idx+1, len(questions), "", questions[idx])
	if editInPlace {
		h.edit(ctx, chatID, messageID, text, adamButtons())
		return
	}
	h.send(ctx, chatID, text, adamButtons())
}

func (h *Handler) askAMS(ctx context.Context, chatID int64, s *domain.Session, idx int) {
	questions := h.catalog.Questions(domain.StateAMS)
	scoreLine := ""
	if idx > 0 {
		scoreLine = "💯 **Puntuación actual:** " + strconv.Itoa(s.AMSScore) + " puntos"
	}
	answered := len(s.AdamAnswers) + idx
	text := questionPrompt(answered, h.catalog.TotalQuestions(),
		h.catalog.SectionName(domain.StateAMS), idx+1, len(questions), scoreLine, questions[idx])
	h.send(ctx, chatID, text, nil)
}

func (h *Handler) askLifestyle(ctx context.Context, chatID int64, s *domain.Session, idx int) {
	questions := h.catalog.Questions(domain.StateLifestyle)
	answered := len(s.AdamAnswers) + s.AMSIndex + idx
	text := questionPrompt(answered, h.catalog.TotalQuestions(),
		h.catalog.SectionName(domain.StateLifestyle), idx+1, len(questions), "", questions[idx])

	var buttons [][]transport.Button
	if h.catalog.LifestyleKind(idx) == domain.QuestionAlcoholTobacco {
		buttons = [][]transport.Button{{
			{Label: "Sí", Data: cbLifestyleYes},
			{Label: "No", Data: cbLifestyleNo},
		}}
	}
	h.send(ctx, chatID, text, buttons)
}

func (h *Handler) handleAMSAnswer(ctx context.Context, userID, chatID int64, s *domain.Session, text string) {
	res := h.validator.Validate(text, domain.QuestionAMSScale, userID)
	if !res.OK {
		h.send(ctx, chatID, failureReply(res), nil)
		h.askAMS(ctx, chatID, s, s.AMSIndex)
		return
	}

	sanitized, truncated := security.Sanitize(text)
	if truncated {
		h.log.Warn("answer truncated", "user_id", userID)
	}
	score, err := strconv.Atoi(strings.TrimSpace(sanitized))
	if err != nil {
		h.log.Error("validated answer failed to parse", "user_id", userID, "input", sanitized)
		h.askAMS(ctx, chatID, s, s.AMSIndex)
		return
	}

	newScore := s.AMSScore + score
	newIdx := s.AMSIndex + 1

	if newIdx < h.catalog.Count(domain.StateAMS) {
		if err := h.sessions.SaveProgress(ctx, userID, domain.StateAMS, domain.ProgressUpdate{AMSScore: &newScore, AMSIndex: &newIdx}); err != nil {
			h.log.Error("save progress failed", "user_id", userID, "error", err)
			return
		}
		s.AMSScore = newScore
		h.askAMS(ctx, chatID, s, newIdx)
		return
	}

	// AMS done, move to lifestyle.
	zero := 0
	if err := h.sessions.SaveProgress(ctx, userID, domain.StateLifestyle, domain.ProgressUpdate{AMSScore: &newScore, AMSIndex: &newIdx, LifestyleIndex: &zero}); err != nil {
		h.log.Error("save progress failed", "user_id", userID, "error", err)
		return
	}

	h.send(ctx, chatID, amsCompletedMessage(newScore), nil)
	s.AMSIndex = newIdx
	h.askLifestyle(ctx, chatID, s, 0)
}

func (h *Handler) handleLifestyleAnswer(ctx context.Context, userID, chatID int64, s *domain.Session, text string) {
	kind := h.catalog.LifestyleKind(s.LifestyleIndex)
	res := h.validator.Validate(text, kind, userID)
	if !res.OK {
		h.send(ctx, chatID, failureReply(res), nil)
		h.askLifestyle(ctx, chatID, s, s.LifestyleIndex)
		return
	}

	sanitized, truncated := security.Sanitize(text)
	if truncated {
		h.log.Warn("answer truncated", "user_id", userID)
	}
	value := parseAnswer(kind, sanitized)
	h.recordLifestyle(ctx, userID, chatID, s, value)
}

// handleLifestyleTap records the yes/no button answer for the final
// lifestyle question.
func (h *Handler) handleLifestyleTap(ctx context.Context, userID, chatID int64, yes bool) {
	s, err := h.sessions.LoadProgress(ctx, userID)
	if err != nil {
		h.send(ctx, chatID, expiredSessionMessage, nil)
		return
	}
	if s.State != domain.StateLifestyle {
		h.askCurrent(ctx, chatID, s)
		return
	}
	h.recordLifestyle(ctx, userID, chatID, s, yes)
}

// recordLifestyle stores the parsed answer under the question's key
// and either asks the next question or closes out the questionnaire.
func (h *Handler) recordLifestyle(ctx context.Context, userID, chatID int64, s *domain.Session, value any) {
	key := questionnaire.LifestyleKeys[s.LifestyleIndex]
	newIdx := s.LifestyleIndex + 1
	upd := domain.ProgressUpdate{
		Lifestyle:      map[string]any{key: value},
		LifestyleIndex: &newIdx,
	}

	if newIdx < h.catalog.Count(domain.StateLifestyle) {
		if err := h.sessions.SaveProgress(ctx, userID, domain.StateLifestyle, upd); err != nil {
			h.log.Error("save progress failed", "user_id", userID, "error", err)
			return
		}
		h.askLifestyle(ctx, chatID, s, newIdx)
		return
	}

	if err := h.sessions.SaveProgress(ctx, userID, domain.StateResults, upd); err != nil {
		h.log.Error("save progress failed", "user_id", userID, "error", err)
		return
	}

	final, err := h.sessions.LoadProgress(ctx, userID)
	if err != nil {
		h.log.Error("load progress after completion failed", "user_id", userID, "error", err)
		return
	}

	h.send(ctx, chatID, finalResults(final), nil)
	h.log.Info("questionnaire completed", "user_id", userID,
		"ams_score", final.AMSScore, "adam_deficit", adamDeficit(final.AdamAnswers))

	if err := h.sessions.SaveProgress(ctx, userID, domain.StateCompleted, domain.ProgressUpdate{}); err != nil {
		h.log.Error("save progress failed", "user_id", userID, "error", err)
	}
}

// parseAnswer converts already-validated text into the stored value
// for a lifestyle question kind.
func parseAnswer(kind domain.QuestionKind, sanitized string) any {
	text := strings.TrimSpace(sanitized)
	switch kind {
	case domain.QuestionBodyFat:
		f, _ := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, "%", "")), 64)
		return f
	case domain.QuestionAlcoholTobacco:
		return security.IsYes(text)
	default:
		n, _ := strconv.Atoi(text)
		return n
	}
}

// send delivers a message, retrying transient failures and falling
// back to a plain rendition without markup.
func (h *Handler) send(ctx context.Context, chatID int64, text string, buttons [][]transport.Button) {
	primary := func(ctx context.Context) error {
		return h.sender.SendMessage(ctx, chatID, text, transport.Options{
			ParseMode: "Markdown",
			Buttons:   buttons,
		})
	}
	fallback := func(ctx context.Context) error {
		return h.sender.SendMessage(ctx, chatID, text, transport.Options{})
	}
	if !resilience.SafeNotify(ctx, h.retry, primary, fallback) {
		h.log.Warn("message delivery failed", "chat_id", chatID)
	}
}

// edit replaces a previously sent message, falling back to a fresh
// send when the edit keeps failing.
func (h *Handler) edit(ctx context.Context, chatID int64, messageID int, text string, buttons [][]transport.Button) {
	primary := func(ctx context.Context) error {
		return h.sender.EditMessage(ctx, chatID, messageID, text, transport.Options{
			ParseMode: "Markdown",
			Buttons:   buttons,
		})
	}
	fallback := func(ctx context.Context) error {
		return h.sender.SendMessage(ctx, chatID, text, transport.Options{Buttons: buttons})
	}
	if !resilience.SafeNotify(ctx, h.retry, primary, fallback) {
		h.log.Warn("message edit failed", "chat_id", chatID, "message_id", messageID)
	}
}

func startButtons() [][]transport.Button {
	return [][]transport.Button{{
		{Label: "✅ Sí, comenzar", Data: cbStartYes},
		{Label: "❌ No, ahora no", Data: cbStartNo},
	}}
}

func adamButtons() [][]transport.Button {
	return [][]transport.Button{{
		{Label: "Sí", Data: cbAdamYes},
		{Label: "No", Data: cbAdamNo},
	}}
}

func inProgress(state domain.SessionState) bool {
	switch state {
	case domain.StateAdam, domain.StateAMS, domain.StateLifestyle:
		return true
	}
	return false
}
