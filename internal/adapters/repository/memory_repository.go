package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

var (
	_ domain.StudySessionRepository = (*InMemoryStudySessionRepository)(nil)
	_ domain.ScheduleRepository     = (*InMemoryScheduleRepository)(nil)
	_ domain.UserRepository         = (*InMemoryUserRepository)(nil)
)

// InMemoryStudySessionRepository stores copies so callers cannot mutate
// stored sessions behind the repository's back.
type InMemoryStudySessionRepository struct {
	store map[string]domain.StudySession

	mu sync.RWMutex
}

func NewInMemoryStudySessionRepository() *InMemoryStudySessionRepository {
	return &InMemoryStudySessionRepository{
		store: make(map[string]domain.StudySession),
	}
}

func (r *InMemoryStudySessionRepository) Create(ctx context.Context, session *domain.StudySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[session.ID]; exists {
		return domain.ErrSessionConflict
	}
	r.store[session.ID] = *session
	return nil
}

func (r *InMemoryStudySessionRepository) GetByID(ctx context.Context, id string) (*domain.StudySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.store[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *InMemoryStudySessionRepository) Update(ctx context.Context, session *domain.StudySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[session.ID]
	if !ok || stored.UserID != session.UserID {
		return domain.ErrSessionNotFound
	}
	if stored.Version != session.Version {
		return domain.ErrSessionConflict
	}

	session.Version++
	session.UpdatedAt = time.Now().UTC()
	r.store[session.ID] = *session
	return nil
}

func (r *InMemoryStudySessionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[id]
	if !ok || stored.UserID != userID {
		return domain.ErrSessionNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryStudySessionRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.StudySession, error) {
	return r.filter(func(s domain.StudySession) bool {
		return s.UserID == userID && !s.Date.Before(from) && !s.Date.After(to)
	}), nil
}

func (r *InMemoryStudySessionRepository) ListWithFocusLevel(ctx context.Context, userID string) ([]*domain.StudySession, error) {
	return r.filter(func(s domain.StudySession) bool {
		return s.FocusLevel != nil && (userID == "" || s.UserID == userID)
	}), nil
}

func (r *InMemoryStudySessionRepository) ListStudyDates(ctx context.Context, userID string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[time.Time]bool)
	dates := []time.Time{}
	for _, s := range r.store {
		if s.UserID == userID && !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return b.Compare(a) })
	return dates, nil
}

func (r *InMemoryStudySessionRepository) filter(keep func(domain.StudySession) bool) []*domain.StudySession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []*domain.StudySession{}
	for _, s := range r.store {
		if keep(s) {
			session := s
			sessions = append(sessions, &session)
		}
	}

	slices.SortFunc(sessions, func(a, b *domain.StudySession) int {
		return cmp.Or(a.Date.Compare(b.Date), a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return sessions
}

type InMemoryScheduleRepository struct {
	store map[string]domain.ScheduledSession

	mu sync.RWMutex
}

func NewInMemoryScheduleRepository() *InMemoryScheduleRepository {
	return &InMemoryScheduleRepository{
		store: make(map[string]domain.ScheduledSession),
	}
}

func (r *InMemoryScheduleRepository) Create(ctx context.Context, s *domain.ScheduledSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[s.ID]; exists {
		return domain.ErrScheduleConflict
	}
	r.store[s.ID] = *s
	return nil
}

func (r *InMemoryScheduleRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[id]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return &s, nil
}

func (r *InMemoryScheduleRepository) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduledSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []*domain.ScheduledSession{}
	for _, s := range r.store {
		if s.UserID == userID && !s.Start.Before(from) && s.Start.Before(to) {
			scheduled := s
			list = append(list, &scheduled)
		}
	}
	slices.SortFunc(list, func(a, b *domain.ScheduledSession) int {
		return a.Start.Compare(b.Start)
	})
	return list, nil
}

func (r *InMemoryScheduleRepository) Update(ctx context.Context, s *domain.ScheduledSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[s.ID]
	if !ok {
		return domain.ErrScheduleNotFound
	}
	if stored.Version != s.Version {
		return domain.ErrScheduleConflict
	}

	s.Version++
	r.store[s.ID] = *s
	return nil
}

func (r *InMemoryScheduleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrScheduleNotFound
	}
	delete(r.store, id)
	return nil
}

type InMemoryUserRepository struct {
	byID map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return domain.ErrUsernameAlreadyExists
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *InMemoryUserRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.UpdateStreak(current, longest)
	r.byID[id] = u
	return nil
}
