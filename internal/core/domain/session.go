package domain

import "time"

// Session holds one user's questionnaire progress
type Session struct {
	UserID         int64
	State          SessionState
	AdamAnswers    []bool
	AMSScore       int
	AMSIndex       int
	Lifestyle      map[string]any
	LifestyleIndex int
	StartTime      time.Time
	LastActivity   time.Time
}

type SessionState string

const (
	StateStart     SessionState = "start"
	StateAdam      SessionState = "adam"
	StateAMS       SessionState = "ams"
	StateLifestyle SessionState = "lifestyle"
	StateResults   SessionState = "results"
	StateCompleted SessionState = "completed"
)

// AnsweredQuestions counts answers recorded across all sections.
func (s *Session) AnsweredQuestions() int {
	return len(s.AdamAnswers) + s.AMSIndex + s.LifestyleIndex
}

// Clone returns a deep copy so callers never share mutable state
// with the store.
func (s *Session) Clone() *Session {
	c := *s
	c.AdamAnswers = append([]bool(nil), s.AdamAnswers...)
	c.Lifestyle = make(map[string]any, len(s.Lifestyle))
	for k, v := range s.Lifestyle {
		c.Lifestyle[k] = v
	}
	return &c
}

// ProgressUpdate carries the section payload merged into a session
// by SaveProgress. Nil fields are left untouched.
type ProgressUpdate struct {
	AdamAnswers    []bool
	AMSScore       *int
	AMSIndex       *int
	Lifestyle      map[string]any
	LifestyleIndex *int
}
