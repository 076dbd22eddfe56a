package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ferranmt/saludbot/internal/core/domain"
)

// ProgressInfo describes how far a user is through the questionnaire.
type ProgressInfo struct {
	Section         string
	CurrentQuestion int
	TotalQuestions  int
	PercentComplete float64
	Elapsed         time.Duration
}

// Message renders a localized progress summary.
func (p *ProgressInfo) Message() string {
	return fmt.Sprintf(
		"📊 *Progreso actual:*\nSección: %s\nPregunta %d de %d\nCompletado: %d%%\nTiempo transcurrido: %d minutos",
		p.Section, p.CurrentQuestion, p.TotalQuestions,
		int(p.PercentComplete), int(p.Elapsed.Minutes()),
	)
}

// GetProgressInfo derives section, 1-based question index, overall
// completion, and elapsed time for the user's live session.
func (m *DefaultManager) GetProgressInfo(ctx context.Context, userID int64) (*ProgressInfo, error) {
	s, err := m.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := &ProgressInfo{Section: m.catalog.SectionName(s.State)}

	switch s.State {
	case domain.StateAdam:
		info.CurrentQuestion = len(s.AdamAnswers) + 1
		info.TotalQuestions = m.catalog.Count(domain.StateAdam)
	case domain.StateAMS:
		info.CurrentQuestion = s.AMSIndex + 1
		info.TotalQuestions = m.catalog.Count(domain.StateAMS)
	case domain.StateLifestyle:
		info.CurrentQuestion = s.LifestyleIndex + 1
		info.TotalQuestions = m.catalog.Count(domain.StateLifestyle)
	default:
		info.CurrentQuestion = 1
		info.TotalQuestions = m.catalog.TotalQuestions()
	}

	total := m.catalog.TotalQuestions()
	if total > 0 {
		info.PercentComplete = float64(s.AnsweredQuestions()) / float64(total) * 100
	}
	info.Elapsed = m.clk.Now().Sub(s.StartTime)

	return info, nil
}
