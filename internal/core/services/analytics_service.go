package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

type AnalyticsService struct {
	sessions domain.SessionFetcher
	now      func() time.Time
}

func NewAnalyticsService(sessions domain.SessionFetcher) *AnalyticsService {
	return &AnalyticsService{
		sessions: sessions,
		now:      time.Now,
	}
}

// WithClock replaces the source of "today".
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Analyze builds the report for the sessions dated within the last days
// calendar days, today included. The per-day average always divides by
// days, not by the number of days that have data.
func (s *AnalyticsService) Analyze(ctx context.Context, userID string, days int) (*domain.AnalyticsReport, error) {
	if days < 1 {
		return nil, domain.ErrInvalidAnalyticsWindow
	}

	endDate := domain.CalendarDate(s.now().UTC())
	startDate := endDate.AddDate(0, 0, -days)

	sessions, err := s.sessions.ListByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics service: failed to fetch sessions: %w", err)
	}

	if len(sessions) == 0 {
		return domain.NewNoDataReport(), nil
	}

	return domain.NewSuccessReport(summarize(sessions, days)), nil
}
