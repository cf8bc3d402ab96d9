package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrScheduleNotFound = errors.New("scheduled session not found")
	ErrScheduleConflict = errors.New("scheduled session version conflict")
)

type ScheduleRepository interface {
	Create(ctx context.Context, session *ScheduledSession) error
	GetByID(ctx context.Context, id string) (*ScheduledSession, error)
	// ListByUserIDInRange returns the sessions overlapping [from, to).
	ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]*ScheduledSession, error)
	Update(ctx context.Context, session *ScheduledSession) error
	Delete(ctx context.Context, id string) error
}
