package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

var _ domain.StudySessionRepository = (*CachedStudySessionRepository)(nil)

const (
	sessionCacheTTL = 30 * time.Minute
	dateKeyLayout   = "2006-01-02"
)

// CachedStudySessionRepository caches date-range reads per user. Any write
// for a user drops every cached range of that user.
type CachedStudySessionRepository struct {
	next  domain.StudySessionRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedStudySessionRepository(next domain.StudySessionRepository, cache *redis.Client) *CachedStudySessionRepository {
	return &CachedStudySessionRepository{
		next:  next,
		cache: cache,
		ttl:   sessionCacheTTL,
	}
}

func (r *CachedStudySessionRepository) rangeKey(userID string, from, to time.Time) string {
	return fmt.Sprintf("sessions:%s:%s:%s", userID, from.Format(dateKeyLayout), to.Format(dateKeyLayout))
}

func (r *CachedStudySessionRepository) invalidate(ctx context.Context, userID string) {
	log := logrus.WithField("user_id", userID)

	iter := r.cache.Scan(ctx, 0, fmt.Sprintf("sessions:%s:*", userID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.WithError(err).Warn("cache: failed to scan session keys")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Warn("cache: failed to invalidate sessions")
	}
}

func (r *CachedStudySessionRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.StudySession, error) {
	key := r.rangeKey(userID, from, to)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var sessions []*domain.StudySession
		if err := json.Unmarshal(val, &sessions); err == nil {
			return sessions, nil
		}

		logrus.WithField("key", key).Warn("cache: corrupted entry, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logrus.WithError(err).Warn("cache: redis read error")
	}

	sessions, err := r.next.ListByUserIDAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sessions); err == nil {
		if setErr := r.cache.Set(ctx, key, data, r.ttl).Err(); setErr != nil {
			logrus.WithError(setErr).Warn("cache: redis set error")
		}
	}

	return sessions, nil
}

func (r *CachedStudySessionRepository) GetByID(ctx context.Context, id string) (*domain.StudySession, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedStudySessionRepository) ListWithFocusLevel(ctx context.Context, userID string) ([]*domain.StudySession, error) {
	return r.next.ListWithFocusLevel(ctx, userID)
}

func (r *CachedStudySessionRepository) ListStudyDates(ctx context.Context, userID string) ([]time.Time, error) {
	return r.next.ListStudyDates(ctx, userID)
}

func (r *CachedStudySessionRepository) Create(ctx context.Context, session *domain.StudySession) error {
	if err := r.next.Create(ctx, session); err != nil {
		return err
	}
	r.invalidate(ctx, session.UserID)
	return nil
}

func (r *CachedStudySessionRepository) Update(ctx context.Context, session *domain.StudySession) error {
	if err := r.next.Update(ctx, session); err != nil {
		return err
	}
	r.invalidate(ctx, session.UserID)
	return nil
}

func (r *CachedStudySessionRepository) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}
