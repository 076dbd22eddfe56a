package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorKind is the failure taxonomy driving recovery decisions.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindTimeout      ErrorKind = "timeout"
	KindRateLimit    ErrorKind = "rate_limit"
	KindValidation   ErrorKind = "validation"
	KindSecurity     ErrorKind = "security"
	KindTransportAPI ErrorKind = "transport_api"
	KindSystem       ErrorKind = "system"
)

// Sentinels for failures produced inside the engine itself. External
// errors are classified heuristically.
var (
	ErrValidation = errors.New("validation failed")
	ErrSecurity   = errors.New("input not permitted")
)

// Classify maps an error to its kind. Unrecognized errors are SYSTEM:
// retrying an unknown failure risks masking a real defect.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindSystem
	}

	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	if errors.Is(err, ErrSecurity) {
		return KindSecurity
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "429") || strings.Contains(s, "too many requests") ||
		strings.Contains(s, "rate limit") || strings.Contains(s, "retry after"):
		return KindRateLimit
	case strings.Contains(s, "timeout") || strings.Contains(s, "timed out") ||
		strings.Contains(s, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(s, "connection") || strings.Contains(s, "network") ||
		strings.Contains(s, "no such host") || strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "eof"):
		return KindNetwork
	case strings.Contains(s, "bad request") || strings.Contains(s, "forbidden") ||
		strings.Contains(s, "chat not found") || strings.Contains(s, "message is not modified") ||
		strings.Contains(s, "bot was blocked") || strings.Contains(s, "telegram"):
		return KindTransportAPI
	default:
		return KindSystem
	}
}

// Action is the recovery decision for a classified failure.
type Action int

const (
	ActionRetry Action = iota
	ActionFallback
	ActionAbort
	ActionUserNotify
)

// transient kinds are worth a degraded fallback once retries run out.
func transient(kind ErrorKind) bool {
	return kind == KindNetwork || kind == KindTimeout || kind == KindTransportAPI
}

// Decide picks the recovery action for a failure on the given attempt.
func Decide(kind ErrorKind, attempt, maxRetries int) Action {
	if attempt >= maxRetries {
		if transient(kind) {
			return ActionFallback
		}
		return ActionAbort
	}

	switch kind {
	case KindNetwork, KindTimeout, KindTransportAPI, KindRateLimit:
		return ActionRetry
	case KindValidation, KindSecurity:
		return ActionUserNotify
	default:
		return ActionAbort
	}
}
