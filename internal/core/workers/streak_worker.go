package workers

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

const queueSize = 100

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type StudyDateLister interface {
	ListStudyDates(ctx context.Context, userID string) ([]time.Time, error)
}

type StreakJob struct {
	UserID string
}

// StreakWorker recomputes a user's consecutive study days after their
// sessions change. Jobs are dropped when the queue is full.
type StreakWorker struct {
	userRepo UserRepository
	dateRepo StudyDateLister
	jobs     chan StreakJob
	now      func() time.Time
}

func NewStreakWorker(uRepo UserRepository, dRepo StudyDateLister) *StreakWorker {
	return &StreakWorker{
		userRepo: uRepo,
		dateRepo: dRepo,
		jobs:     make(chan StreakJob, queueSize),
		now:      time.Now,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		logrus.Info("streak worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				logrus.Info("streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		logrus.WithField("user_id", userID).Warn("streak worker queue full, dropping job")
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	log := logrus.WithField("user_id", job.UserID)

	user, err := w.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		log.WithError(err).Error("streak worker: failed to fetch user")
		return
	}

	dates, err := w.dateRepo.ListStudyDates(ctx, job.UserID)
	if err != nil {
		log.WithError(err).Error("streak worker: failed to fetch study dates")
		return
	}

	current, longest := calculateStreaks(dates, w.now())

	if user.CurrentStreak == current && user.LongestStreak == longest {
		return
	}

	if err := w.userRepo.UpdateStreaks(ctx, user.ID, current, longest); err != nil {
		log.WithError(err).Error("streak worker: failed to update streaks")
		return
	}

	log.WithFields(logrus.Fields{
		"current": current,
		"longest": longest,
	}).Debug("streak updated")
}

// calculateStreaks counts distinct calendar days. The current streak is alive
// when the most recent study day is today or yesterday.
func calculateStreaks(dates []time.Time, now time.Time) (int, int) {
	if len(dates) == 0 {
		return 0, 0
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, d := range dates {
		day := domain.CalendarDate(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	slices.SortFunc(days, func(a, b time.Time) int {
		return b.Compare(a)
	})

	consecutive := func(later, earlier time.Time) bool {
		return earlier.AddDate(0, 0, 1).Equal(later)
	}

	currentStreak := 0
	today := domain.CalendarDate(now)
	if !days[0].Before(today.AddDate(0, 0, -1)) {
		currentStreak = 1
		for i := 0; i < len(days)-1; i++ {
			if !consecutive(days[i], days[i+1]) {
				break
			}
			currentStreak++
		}
	}

	longestStreak := 0
	tempStreak := 1
	for i := 0; i < len(days)-1; i++ {
		if consecutive(days[i], days[i+1]) {
			tempStreak++
			continue
		}
		longestStreak = max(longestStreak, tempStreak)
		tempStreak = 1
	}
	longestStreak = max(longestStreak, tempStreak)

	return currentStreak, longestStreak
}
