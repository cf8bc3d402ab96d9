package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
)

var analyticsNow = time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

func newAnalyticsService(repo *MockSessionRepo) *services.AnalyticsService {
	return services.NewAnalyticsService(repo).WithClock(func() time.Time { return analyticsNow })
}

func TestAnalyticsService_Analyze(t *testing.T) {
	ctx := context.Background()
	uid := "user-1"
	windowEnd := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)

	t.Run("Success: Should query the inclusive window ending today", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newAnalyticsService(repo)

		sessions := []*domain.StudySession{
			{UserID: uid, Subject: "Math", Duration: 2.0, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
			{UserID: uid, Subject: "Math", Duration: 1.0, Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		}
		repo.On("ListByUserIDAndDateRange", ctx, uid, windowStart, windowEnd).Return(sessions, nil)

		report, err := svc.Analyze(ctx, uid, 30)

		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusSuccess, report.Status)
		require.NotNil(t, report.AnalyticsSummary)
		assert.Equal(t, 3.0, report.TotalHours)
		assert.Equal(t, 0.1, report.AvgHoursPerDay)
		assert.Equal(t, 2, report.SessionsCount)
		repo.AssertExpectations(t)
	})

	t.Run("Empty: Should return no_data report", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newAnalyticsService(repo)

		repo.On("ListByUserIDAndDateRange", ctx, uid, windowStart, windowEnd).Return([]*domain.StudySession{}, nil)

		report, err := svc.Analyze(ctx, uid, 30)

		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusNoData, report.Status)
		assert.Equal(t, domain.NoDataMessage, report.Message)
		assert.Nil(t, report.AnalyticsSummary)

		raw, err := json.Marshal(report)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"no_data","message":"No study data available for analysis"}`, string(raw))
	})

	t.Run("Window: Single day reaches back to yesterday", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newAnalyticsService(repo)

		repo.On("ListByUserIDAndDateRange", ctx, uid, windowEnd.AddDate(0, 0, -1), windowEnd).Return(nil, nil)

		report, err := svc.Analyze(ctx, uid, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusNoData, report.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: Should reject a non-positive window", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newAnalyticsService(repo)

		for _, days := range []int{0, -7} {
			_, err := svc.Analyze(ctx, uid, days)
			assert.ErrorIs(t, err, domain.ErrInvalidAnalyticsWindow)
		}
		repo.AssertNotCalled(t, "ListByUserIDAndDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Should wrap repository errors", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newAnalyticsService(repo)
		dbErr := errors.New("connection refused")

		repo.On("ListByUserIDAndDateRange", ctx, uid, windowStart, windowEnd).Return(nil, dbErr)

		report, err := svc.Analyze(ctx, uid, 30)

		assert.Nil(t, report)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to fetch sessions")
	})
}

func TestAnalyticsService_SuccessJSONShape(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSessionRepo)
	svc := newAnalyticsService(repo)

	s := &domain.StudySession{
		UserID:     "user-1",
		Subject:    "Math",
		Duration:   2.0,
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  &domain.TimeOfDay{Hour: 9},
		FocusLevel: intPtr(4),
	}
	repo.On("ListByUserIDAndDateRange", ctx, "user-1", mock.Anything, mock.Anything).Return([]*domain.StudySession{s}, nil)

	report, err := svc.Analyze(ctx, "user-1", 30)
	require.NoError(t, err)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "success", decoded["status"])
	assert.NotContains(t, decoded, "message")
	assert.Equal(t, map[string]any{"10": 2.0}, decoded["weekly_progress"])
	assert.Equal(t, "09:00-10:00", decoded["most_productive_time"])
	assert.Equal(t, 4.0, decoded["average_focus"])
	assert.Equal(t, map[string]any{}, decoded["moods"])
}
