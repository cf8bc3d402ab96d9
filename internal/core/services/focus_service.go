package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

const focusSampleSize = 5

type FocusService struct {
	sessions domain.FocusLister
}

func NewFocusService(sessions domain.FocusLister) *FocusService {
	return &FocusService{sessions: sessions}
}

// Summarize reports how many sessions carry a focus level, the first few of
// them and their average. AverageFocus is nil when there are none.
func (s *FocusService) Summarize(ctx context.Context, userID string) (*domain.FocusSummary, error) {
	sessions, err := s.sessions.ListWithFocusLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("focus service: failed to list sessions: %w", err)
	}

	summary := &domain.FocusSummary{
		Count:  len(sessions),
		Sample: sessions[:min(len(sessions), focusSampleSize)],
	}

	total, counted := 0, 0
	for _, session := range sessions {
		if session.FocusLevel == nil {
			continue
		}
		total += *session.FocusLevel
		counted++
	}
	if counted > 0 {
		avg := round1(float64(total) / float64(counted))
		summary.AverageFocus = &avg
	}

	return summary, nil
}
