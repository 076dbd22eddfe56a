package domain

import "time"

// SecurityEvent records an abuse or misuse signal for one user
type SecurityEvent struct {
	ID          string
	UserID      int64
	Type        SecurityEventType
	Severity    Severity
	Description string
	Timestamp   time.Time
	Data        map[string]any
}

type SecurityEventType string

const (
	EventMaliciousInput       SecurityEventType = "malicious_input"
	EventRateLimitExceeded    SecurityEventType = "rate_limit_exceeded"
	EventInvalidInputRepeated SecurityEventType = "invalid_input_repeated"
	EventSuspiciousPattern    SecurityEventType = "suspicious_pattern"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)
