package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("study session not found")
	ErrSessionConflict = errors.New("study session version conflict")
)

// SessionFetcher is the read side the analytics pipeline depends on.
type SessionFetcher interface {
	// ListByUserIDAndDateRange returns every session of the user whose date
	// falls in [from, to], both ends inclusive. Ordering is unspecified.
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*StudySession, error)
}

// FocusLister lists sessions that carry a focus level, oldest first.
// An empty userID spans every user.
type FocusLister interface {
	ListWithFocusLevel(ctx context.Context, userID string) ([]*StudySession, error)
}

type StudySessionRepository interface {
	SessionFetcher
	FocusLister

	// Create persists a new session.
	Create(ctx context.Context, session *StudySession) error
	// GetByID retrieves a single session by its ID.
	GetByID(ctx context.Context, id string) (*StudySession, error)
	// Update modifies an existing session.
	// Implementations must reject stale versions with ErrSessionConflict.
	Update(ctx context.Context, session *StudySession) error
	// Delete removes the session. userID guards against deleting someone else's data.
	Delete(ctx context.Context, id string, userID string) error
	// ListStudyDates returns the distinct calendar dates on which the user studied.
	ListStudyDates(ctx context.Context, userID string) ([]time.Time, error)
}
