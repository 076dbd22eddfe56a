package questionnaire

import (
	"testing"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

func TestCatalogCounts(t *testing.T) {
	c := NewBuiltin()

	tests := []struct {
		state domain.SessionState
		want  int
	}{
		{domain.StateAdam, 10},
		{domain.StateAMS, 17},
		{domain.StateLifestyle, 6},
		{domain.StateStart, 0},
		{domain.StateCompleted, 0},
	}

	for _, tt := range tests {
		if got := c.Count(tt.state); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.state, got, tt.want)
		}
	}

	if got := c.TotalQuestions(); got != 33 {
		t.Errorf("TotalQuestions = %d, want 33", got)
	}
}

func TestCatalogQuestionsNonEmpty(t *testing.T) {
	c := NewBuiltin()

	for _, state := range []domain.SessionState{domain.StateAdam, domain.StateAMS, domain.StateLifestyle} {
		for i, q := range c.Questions(state) {
			if q == "" {
				t.Errorf("empty question %d in section %q", i, state)
			}
		}
	}
}

func TestLifestyleKindsAlignWithKeys(t *testing.T) {
	c := NewBuiltin()

	if len(LifestyleKeys) != c.Count(domain.StateLifestyle) {
		t.Fatalf("%d keys for %d questions", len(LifestyleKeys), c.Count(domain.StateLifestyle))
	}

	wantKinds := []domain.QuestionKind{
		domain.QuestionAge,
		domain.QuestionBodyFat,
		domain.QuestionSleepQuality,
		domain.QuestionStressLevel,
		domain.QuestionExerciseFreq,
		domain.QuestionAlcoholTobacco,
	}
	for i, want := range wantKinds {
		if got := c.LifestyleKind(i); got != want {
			t.Errorf("LifestyleKind(%d) = %q, want %q", i, got, want)
		}
	}

	// Out of range indexes degrade to the final yes/no question.
	if got := c.LifestyleKind(99); got != domain.QuestionAlcoholTobacco {
		t.Errorf("LifestyleKind(99) = %q", got)
	}
}

func TestSectionNames(t *testing.T) {
	c := NewBuiltin()

	for _, state := range []domain.SessionState{domain.StateAdam, domain.StateAMS, domain.StateLifestyle} {
		if c.SectionName(state) == "" {
			t.Errorf("empty section name for %q", state)
		}
	}
}
