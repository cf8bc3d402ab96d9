package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

type ScheduleService struct {
	repo domain.ScheduleRepository
}

func NewScheduleService(repo domain.ScheduleRepository) *ScheduleService {
	return &ScheduleService{
		repo: repo,
	}
}

type CreateScheduleInput struct {
	UserID  string
	Subject string
	Notes   string
	Color   string
	Start   time.Time
	End     time.Time
}

type UpdateScheduleInput struct {
	ID      string
	UserID  string
	Subject string
	Notes   string
	Color   string
	Start   time.Time
	End     time.Time
	Version int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func mergeTime(newVal, oldVal time.Time) time.Time {
	if newVal.IsZero() {
		return oldVal
	}
	return newVal
}

func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*domain.ScheduledSession, error) {
	scheduled, err := domain.NewScheduledSession(input.UserID, input.Subject, input.Notes, input.Color, input.Start, input.End)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, scheduled); err != nil {
		return nil, err
	}

	return scheduled, nil
}

// ListInRange returns the sessions starting inside [from, to).
func (s *ScheduleService) ListInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduledSession, error) {
	if !to.After(from) {
		return nil, domain.ErrScheduleInvalidRange
	}
	return s.repo.ListByUserIDInRange(ctx, userID, from.UTC(), to.UTC())
}

func (s *ScheduleService) GetByID(ctx context.Context, id string, userID string) (*domain.ScheduledSession, error) {
	scheduled, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduled.UserID != userID {
		return nil, domain.ErrScheduleNotFound
	}
	return scheduled, nil
}

func (s *ScheduleService) Update(ctx context.Context, input UpdateScheduleInput) (*domain.ScheduledSession, error) {
	scheduled, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && scheduled.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrScheduleConflict, input.Version, scheduled.Version)
	}

	err = scheduled.Reschedule(
		mergeString(input.Subject, scheduled.Subject),
		mergeString(input.Notes, scheduled.Notes),
		mergeString(input.Color, scheduled.Color),
		mergeTime(input.Start, scheduled.Start),
		mergeTime(input.End, scheduled.End),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, scheduled); err != nil {
		return nil, err
	}

	return scheduled, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
