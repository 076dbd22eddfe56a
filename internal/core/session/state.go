package session

import (
	"github.com/ferranmt/saludbot/internal/core/domain"
)

// ValidTransitions defines the questionnaire flow. The conversation
// layer drives transitions; the store records them and flags anything
// off the table. COMPLETED is terminal.
var ValidTransitions = map[domain.SessionState][]domain.SessionState{
	domain.StateStart:     {domain.StateAdam},
	domain.StateAdam:      {domain.StateAMS},
	domain.StateAMS:       {domain.StateLifestyle},
	domain.StateLifestyle: {domain.StateResults},
	domain.StateResults:   {domain.StateCompleted},
	domain.StateCompleted: {},
}

// KnownState reports whether s is a member of the state enum.
func KnownState(s domain.SessionState) bool {
	_, ok := ValidTransitions[s]
	return ok
}

// CanTransition checks whether moving from one state to another follows
// the questionnaire flow. Staying in the same state is always allowed
// (answers within a section).
func CanTransition(from, to domain.SessionState) bool {
	if from == to {
		return true
	}
	for _, next := range ValidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
