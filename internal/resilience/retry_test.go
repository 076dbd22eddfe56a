package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// timeoutErr implements net.Error.
type timeoutErr struct{ timeout bool }

func (e *timeoutErr) Error() string   { return "dial tcp: i/o problem" }
func (e *timeoutErr) Timeout() bool   { return e.timeout }
func (e *timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindSystem},
		{"validation sentinel", ErrValidation, KindValidation},
		{"wrapped validation", fmt.Errorf("answer rejected: %w", ErrValidation), KindValidation},
		{"security sentinel", ErrSecurity, KindSecurity},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"net timeout", &timeoutErr{timeout: true}, KindTimeout},
		{"net non-timeout", &timeoutErr{timeout: false}, KindNetwork},
		{"http 429", errors.New("HTTP 429 returned"), KindRateLimit},
		{"too many requests", errors.New("Too Many Requests: retry after 35"), KindRateLimit},
		{"timeout text", errors.New("request timed out"), KindTimeout},
		{"connection refused", errors.New("connection refused"), KindNetwork},
		{"unexpected eof", errors.New("unexpected EOF"), KindNetwork},
		{"bad request", errors.New("Bad Request: message text is empty"), KindTransportAPI},
		{"blocked by user", errors.New("Forbidden: bot was blocked by the user"), KindTransportAPI},
		{"unknown", errors.New("something odd"), KindSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		kind       ErrorKind
		attempt    int
		maxRetries int
		want       Action
	}{
		{"network retries", KindNetwork, 1, 3, ActionRetry},
		{"timeout retries", KindTimeout, 2, 3, ActionRetry},
		{"transport retries", KindTransportAPI, 1, 3, ActionRetry},
		{"rate limit retries", KindRateLimit, 1, 3, ActionRetry},
		{"validation notifies", KindValidation, 1, 3, ActionUserNotify},
		{"security notifies", KindSecurity, 1, 3, ActionUserNotify},
		{"system aborts", KindSystem, 1, 3, ActionAbort},
		{"network exhausted falls back", KindNetwork, 3, 3, ActionFallback},
		{"timeout exhausted falls back", KindTimeout, 3, 3, ActionFallback},
		{"transport exhausted falls back", KindTransportAPI, 3, 3, ActionFallback},
		{"rate limit exhausted aborts", KindRateLimit, 3, 3, ActionAbort},
		{"system exhausted aborts", KindSystem, 3, 3, ActionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.kind, tt.attempt, tt.maxRetries); got != tt.want {
				t.Errorf("Decide(%q, %d, %d) = %v, want %v", tt.kind, tt.attempt, tt.maxRetries, got, tt.want)
			}
		})
	}
}

func TestDelayGrowsExponentially(t *testing.T) {
	p := Policy{
		MaxRetries:      10,
		BaseDelay:       time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          false,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{7, 60 * time.Second},
		{10, 60 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Delay(tt.attempt, KindNetwork); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDelayRateLimitFloor(t *testing.T) {
	p := Policy{
		BaseDelay:       time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
	}

	if got := p.Delay(1, KindRateLimit); got != 30*time.Second {
		t.Errorf("rate-limited Delay(1) = %v, want 30s", got)
	}
	// Past the floor, the exponential curve takes over.
	if got := p.Delay(7, KindRateLimit); got != 60*time.Second {
		t.Errorf("rate-limited Delay(7) = %v, want 60s", got)
	}
}

func TestDelayJitterOnlyAdds(t *testing.T) {
	p := Policy{
		BaseDelay:       time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          true,
	}

	for i := 0; i < 100; i++ {
		got := p.Delay(1, KindNetwork)
		if got < 1100*time.Millisecond || got > 1300*time.Millisecond {
			t.Fatalf("jittered delay = %v, want within [1.1s, 1.3s]", got)
		}
	}
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, ExponentialBase: 2.0}

	calls := 0
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	}, p)

	if err != nil {
		t.Fatalf("WithRetry returned %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestWithRetryReturnsOriginalError(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, ExponentialBase: 2.0}

	original := errors.New("connection refused by peer")
	calls := 0
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return original
	}, p)

	if !errors.Is(err, original) {
		t.Errorf("WithRetry returned %v, want the original error", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestWithRetryDoesNotRetryValidation(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond, ExponentialBase: 2.0}

	calls := 0
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return ErrValidation
	}, p)

	if !errors.Is(err, ErrValidation) {
		t.Errorf("WithRetry returned %v, want ErrValidation", err)
	}
	if calls != 1 {
		t.Errorf("validation failure retried %d times, want 1 attempt", calls)
	}
}

func TestWithRetryCancelledDuringBackoff(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, ExponentialBase: 2.0}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, func(ctx context.Context) error {
		return errors.New("connection refused")
	}, p)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("WithRetry returned %v, want context.Canceled", err)
	}
}

func TestSafeNotifyFallsBack(t *testing.T) {
	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, ExponentialBase: 2.0}

	fallbackCalled := false
	ok := SafeNotify(context.Background(),
		p,
		func(ctx context.Context) error { return errors.New("connection refused") },
		func(ctx context.Context) error { fallbackCalled = true; return nil },
	)

	if !ok {
		t.Error("SafeNotify = false, want true via fallback")
	}
	if !fallbackCalled {
		t.Error("fallback not invoked after transient exhaustion")
	}
}

func TestSafeNotifyNoFallbackForSystemErrors(t *testing.T) {
	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond, ExponentialBase: 2.0}

	fallbackCalled := false
	ok := SafeNotify(context.Background(),
		p,
		func(ctx context.Context) error { return errors.New("something odd") },
		func(ctx context.Context) error { fallbackCalled = true; return nil },
	)

	if ok {
		t.Error("SafeNotify = true for a non-transient failure")
	}
	if fallbackCalled {
		t.Error("fallback invoked for a non-transient failure")
	}
}

func TestMessageFor(t *testing.T) {
	for _, kind := range []ErrorKind{KindNetwork, KindTimeout, KindRateLimit, KindValidation, KindSecurity, KindTransportAPI, KindSystem} {
		msg := MessageFor(kind)
		if msg.Message == "" {
			t.Errorf("MessageFor(%q) has empty message", kind)
		}
	}
	if MessageFor("desconocido").Message == "" {
		t.Error("unknown kind should fall back to the system message")
	}
}
