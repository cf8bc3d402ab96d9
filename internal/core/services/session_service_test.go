package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
	"github.com/comitanigiacomo/kanso-study/internal/core/workers"
)

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) Update(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.StudySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockSessionRepo) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.StudySession, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudySession), args.Error(1)
}

func (m *MockSessionRepo) ListWithFocusLevel(ctx context.Context, userID string) ([]*domain.StudySession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudySession), args.Error(1)
}

func (m *MockSessionRepo) ListStudyDates(ctx context.Context, userID string) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func getTestWorker() *workers.StreakWorker {
	return workers.NewStreakWorker(nil, nil)
}

func intPtr(v int) *int { return &v }

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	day := time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC)

	t.Run("Success: Should normalize optional fields and persist", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		repo.On("Create", ctx, mock.MatchedBy(func(s *domain.StudySession) bool {
			return s.UserID == uid &&
				s.Subject == "Math" &&
				s.Duration == 1.5 &&
				s.Date.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) &&
				s.Mood != nil && *s.Mood == "Focused" &&
				s.Notes == nil
		})).Return(nil)

		created, err := svc.Create(ctx, services.CreateSessionInput{
			UserID:     uid,
			Subject:    "  Math ",
			Duration:   1.5,
			Date:       day,
			StartTime:  &domain.TimeOfDay{Hour: 9},
			Mood:       " Focused ",
			Notes:      "   ",
			FocusLevel: intPtr(4),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)
		assert.NotEmpty(t, created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Validation: Should reject focus level out of range", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		_, err := svc.Create(ctx, services.CreateSessionInput{
			UserID:     uid,
			Subject:    "Math",
			Duration:   1,
			Date:       day,
			FocusLevel: intPtr(6),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidFocusLevel)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation: Should reject empty subject", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		_, err := svc.Create(ctx, services.CreateSessionInput{UserID: uid, Subject: " ", Duration: 1, Date: day})

		assert.ErrorIs(t, err, domain.ErrSessionSubjectEmpty)
	})
}

func TestSessionService_Update(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	sessionID := "session-xyz"
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Success: Should update owned session", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		existing := &domain.StudySession{ID: sessionID, UserID: uid, Subject: "Math", Duration: 1, Date: day, Version: 1}
		repo.On("GetByID", ctx, sessionID).Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(s *domain.StudySession) bool {
			return s.Subject == "Physics" && s.Duration == 2.5 && s.Date.Equal(day)
		})).Return(nil)

		updated, err := svc.Update(ctx, services.UpdateSessionInput{
			ID:       sessionID,
			UserID:   uid,
			Subject:  "Physics",
			Duration: 2.5,
			Version:  1,
		})

		require.NoError(t, err)
		assert.Equal(t, "Physics", updated.Subject)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrency: Should fail if version conflict", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		existing := &domain.StudySession{ID: sessionID, UserID: uid, Subject: "Math", Date: day, Version: 2}
		repo.On("GetByID", ctx, sessionID).Return(existing, nil)

		_, err := svc.Update(ctx, services.UpdateSessionInput{ID: sessionID, UserID: uid, Subject: "Math", Version: 1})

		assert.ErrorIs(t, err, domain.ErrSessionConflict)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Security: Should fail if updating session of another user", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		existing := &domain.StudySession{ID: sessionID, UserID: "victim", Subject: "Math", Date: day}
		repo.On("GetByID", ctx, sessionID).Return(existing, nil)

		_, err := svc.Update(ctx, services.UpdateSessionInput{ID: sessionID, UserID: "attacker", Subject: "Math"})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Validation: Should not persist negative duration", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		existing := &domain.StudySession{ID: sessionID, UserID: uid, Subject: "Math", Date: day, Version: 1}
		repo.On("GetByID", ctx, sessionID).Return(existing, nil)

		_, err := svc.Update(ctx, services.UpdateSessionInput{ID: sessionID, UserID: uid, Subject: "Math", Duration: -1})

		assert.ErrorIs(t, err, domain.ErrNegativeDuration)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Delete(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	sessionID := "session-del"

	t.Run("Success: Should delete owned session", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		repo.On("GetByID", ctx, sessionID).Return(&domain.StudySession{ID: sessionID, UserID: uid}, nil)
		repo.On("Delete", ctx, sessionID, uid).Return(nil)

		err := svc.Delete(ctx, sessionID, uid)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Security: Should return Unauthorized if user mismatch", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		repo.On("GetByID", ctx, sessionID).Return(&domain.StudySession{ID: sessionID, UserID: "owner"}, nil)

		err := svc.Delete(ctx, sessionID, "attacker")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Should return NotFound if session doesn't exist", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		repo.On("GetByID", ctx, sessionID).Return(nil, domain.ErrSessionNotFound)

		err := svc.Delete(ctx, sessionID, uid)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionService_GetByID(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	sessionID := "session-read"

	t.Run("Success: Should return session if owned by user", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		expected := &domain.StudySession{ID: sessionID, UserID: uid, Subject: "Math"}
		repo.On("GetByID", ctx, sessionID).Return(expected, nil)

		result, err := svc.GetByID(ctx, sessionID, uid)

		require.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("Security: Should prevent reading other users' sessions", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := services.NewSessionService(repo, getTestWorker())

		repo.On("GetByID", ctx, sessionID).Return(&domain.StudySession{ID: sessionID, UserID: "other-user"}, nil)

		result, err := svc.GetByID(ctx, sessionID, uid)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, result)
	})
}

func TestSessionService_ListInRange(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	repo := new(MockSessionRepo)
	svc := services.NewSessionService(repo, getTestWorker())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	expected := []*domain.StudySession{{ID: "1"}, {ID: "2"}}

	repo.On("ListByUserIDAndDateRange", ctx, uid, from, to).Return(expected, nil)

	list, err := svc.ListInRange(ctx, uid, from.Add(10*time.Hour), to.Add(23*time.Hour))

	require.NoError(t, err)
	assert.Len(t, list, 2)
	repo.AssertExpectations(t)
}
