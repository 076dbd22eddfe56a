// Package validation binds question kinds to the security validators
// and escalates assistance for users who keep failing the same
// question. Retry counters live only in memory: a restart forgives
// prior struggles.
package validation

import (
	"sync"

	"github.com/ferranmt/saludbot/internal/core/domain"
	"github.com/ferranmt/saludbot/internal/security"
)

// Config tunes the assistance thresholds.
type Config struct {
	RetriesBeforeHelp            int  `yaml:"retries_before_help"`
	RetriesBeforeProgressiveHelp int  `yaml:"retries_before_progressive_help"`
	ProgressiveAssistance        bool `yaml:"progressive_assistance"`
	FormatSuggestions            bool `yaml:"format_suggestions"`
}

// DefaultConfig matches the deployed thresholds: help at 3 failures,
// progressive help at 5.
var DefaultConfig = Config{
	RetriesBeforeHelp:            3,
	RetriesBeforeProgressiveHelp: 5,
	ProgressiveAssistance:        true,
	FormatSuggestions:            true,
}

// Result extends the security result with assistance state.
type Result struct {
	security.Result
	RetryCount         int
	ProgressiveHelp    string
	Examples           []string
	ProgressiveHelpSet bool
}

type userKind struct {
	userID int64
	kind   domain.QuestionKind
}

// Layer validates question responses with escalating help.
type Layer struct {
	manager *security.Manager
	cfg     Config

	mu      sync.Mutex
	retries map[userKind]int
}

// NewLayer wraps a security manager with assistance tracking.
func NewLayer(manager *security.Manager, cfg Config) *Layer {
	if cfg.RetriesBeforeHelp <= 0 {
		cfg.RetriesBeforeHelp = DefaultConfig.RetriesBeforeHelp
	}
	if cfg.RetriesBeforeProgressiveHelp <= 0 {
		cfg.RetriesBeforeProgressiveHelp = DefaultConfig.RetriesBeforeProgressiveHelp
	}
	return &Layer{
		manager: manager,
		cfg:     cfg,
		retries: make(map[userKind]int),
	}
}

// Validate checks a response for its question kind. On failure the
// per-(user,kind) counter grows and help escalates; the first success
// resets it.
func (l *Layer) Validate(input string, kind domain.QuestionKind, userID int64) Result {
	base := l.manager.Validate(input, domain.InputKindFor(kind), userID)

	key := userKind{userID: userID, kind: kind}
	if base.OK {
		l.mu.Lock()
		delete(l.retries, key)
		l.mu.Unlock()
		return Result{Result: base}
	}

	l.mu.Lock()
	l.retries[key]++
	count := l.retries[key]
	l.mu.Unlock()

	res := Result{Result: base, RetryCount: count}
	if l.cfg.FormatSuggestions {
		res.Examples = Examples(kind)
	}
	if count >= l.cfg.RetriesBeforeHelp {
		res.HelpMsg = baseHelp(kind) + "\n\n" + additionalHelp(kind)
	} else if res.HelpMsg == "" {
		res.HelpMsg = baseHelp(kind)
	}
	if l.cfg.ProgressiveAssistance && count >= l.cfg.RetriesBeforeProgressiveHelp {
		res.ProgressiveHelp = progressiveHelp(kind)
		res.ProgressiveHelpSet = true
	}
	return res
}

// RetryCount returns the current consecutive failures for a user and
// question kind.
func (l *Layer) RetryCount(userID int64, kind domain.QuestionKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retries[userKind{userID: userID, kind: kind}]
}

// ResetRetries clears counters for a user. With an empty kind, every
// kind is cleared.
func (l *Layer) ResetRetries(userID int64, kind domain.QuestionKind) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if kind != "" {
		delete(l.retries, userKind{userID: userID, kind: kind})
		return
	}
	for key := range l.retries {
		if key.userID == userID {
			delete(l.retries, key)
		}
	}
}
