package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/workers"
)

type SessionService struct {
	repo   domain.StudySessionRepository
	worker *workers.StreakWorker
}

func NewSessionService(repo domain.StudySessionRepository, worker *workers.StreakWorker) *SessionService {
	return &SessionService{
		repo:   repo,
		worker: worker,
	}
}

type CreateSessionInput struct {
	UserID       string
	Subject      string
	Duration     float64
	Date         time.Time
	StartTime    *domain.TimeOfDay
	EndTime      *domain.TimeOfDay
	Notes        string
	Mood         string
	FocusLevel   *int
	Distractions int
}

type UpdateSessionInput struct {
	ID           string
	UserID       string
	Subject      string
	Duration     float64
	Date         time.Time
	StartTime    *domain.TimeOfDay
	EndTime      *domain.TimeOfDay
	Notes        string
	Mood         string
	FocusLevel   *int
	Distractions int
	Version      int
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *SessionService) Create(ctx context.Context, input CreateSessionInput) (*domain.StudySession, error) {
	session := domain.NewStudySession(input.UserID, input.Subject, input.Duration, input.Date)
	session.StartTime = input.StartTime
	session.EndTime = input.EndTime
	session.Notes = optionalString(input.Notes)
	session.Mood = optionalString(input.Mood)
	session.FocusLevel = input.FocusLevel
	session.Distractions = input.Distractions

	if err := session.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.worker.Enqueue(session.UserID)

	return session, nil
}

func (s *SessionService) GetByID(ctx context.Context, id string, userID string) (*domain.StudySession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (s *SessionService) Update(ctx context.Context, input UpdateSessionInput) (*domain.StudySession, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrSessionConflict, input.Version, existing.Version)
	}

	existing.Subject = strings.TrimSpace(input.Subject)
	existing.Duration = input.Duration
	if !input.Date.IsZero() {
		existing.Date = domain.CalendarDate(input.Date)
	}
	existing.StartTime = input.StartTime
	existing.EndTime = input.EndTime
	existing.Notes = optionalString(input.Notes)
	existing.Mood = optionalString(input.Mood)
	existing.FocusLevel = input.FocusLevel
	existing.Distractions = input.Distractions

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.UserID)

	return existing, nil
}

func (s *SessionService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(userID)

	return nil
}

func (s *SessionService) ListInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.StudySession, error) {
	return s.repo.ListByUserIDAndDateRange(ctx, userID, domain.CalendarDate(from), domain.CalendarDate(to))
}
