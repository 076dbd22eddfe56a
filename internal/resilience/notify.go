package resilience

import (
	"context"
	"log/slog"
)

// SafeNotify attempts the primary notification channel with retries and,
// if the final decision is a fallback, tries the degraded channel once.
// It reports success and never returns an error: losing a notification
// must not fail the surrounding flow.
func SafeNotify(ctx context.Context, p Policy, primary, fallback Operation) bool {
	err := WithRetry(ctx, primary, p)
	if err == nil {
		return true
	}

	kind := Classify(err)
	if Decide(kind, p.MaxRetries, p.MaxRetries) != ActionFallback || fallback == nil {
		slog.Warn("notification failed", "kind", kind, "error", err)
		return false
	}

	if fbErr := fallback(ctx); fbErr != nil {
		slog.Warn("fallback notification failed", "kind", Classify(fbErr), "error", fbErr)
		return false
	}
	return true
}
