package domain

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrSessionSubjectEmpty   = errors.New("subject cannot be empty")
	ErrSessionSubjectTooLong = errors.New("subject is too long (max 100 chars)")
	ErrSessionInvalidUserID  = errors.New("user_id is required")
	ErrSessionDateRequired   = errors.New("date is required")
	ErrNegativeDuration      = errors.New("duration cannot be negative")
	ErrInvalidFocusLevel     = errors.New("focus level must be between 1 and 5")
	ErrMoodTooLong           = errors.New("mood is too long (max 20 chars)")
	ErrNegativeDistractions  = errors.New("distractions cannot be negative")
)

const (
	MaxSubjectLen = 100
	MaxMoodLen    = 20
	MinFocusLevel = 1
	MaxFocusLevel = 5
)

type StudySession struct {
	ID      string `json:"id" db:"id"`
	UserID  string `json:"user_id" db:"user_id"`
	Subject string `json:"subject" db:"subject"`

	// Duration is expressed in hours.
	Duration  float64    `json:"duration" db:"duration"`
	Date      time.Time  `json:"date" db:"date"`
	StartTime *TimeOfDay `json:"start_time" db:"start_time"`
	EndTime   *TimeOfDay `json:"end_time" db:"end_time"`
	Notes     *string    `json:"notes" db:"notes"`

	Mood         *string `json:"mood" db:"mood"`
	FocusLevel   *int    `json:"focus_level" db:"focus_level"`
	Distractions int     `json:"distractions" db:"distractions"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewStudySession(userID, subject string, duration float64, date time.Time) *StudySession {
	now := time.Now().UTC()
	return &StudySession{
		ID:       uuid.New().String(),
		UserID:   userID,
		Subject:  strings.TrimSpace(subject),
		Duration: duration,
		Date:     CalendarDate(date),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CalendarDate drops the clock part of t, keeping its calendar day as UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *StudySession) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrSessionInvalidUserID
	}
	subject := strings.TrimSpace(s.Subject)
	if subject == "" {
		return ErrSessionSubjectEmpty
	}
	if utf8.RuneCountInString(subject) > MaxSubjectLen {
		return ErrSessionSubjectTooLong
	}
	if s.Duration < 0 || math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) {
		return ErrNegativeDuration
	}
	if s.Date.IsZero() {
		return ErrSessionDateRequired
	}
	if s.FocusLevel != nil && (*s.FocusLevel < MinFocusLevel || *s.FocusLevel > MaxFocusLevel) {
		return ErrInvalidFocusLevel
	}
	if s.Mood != nil && utf8.RuneCountInString(*s.Mood) > MaxMoodLen {
		return ErrMoodTooLong
	}
	if s.Distractions < 0 {
		return ErrNegativeDistractions
	}
	return nil
}

func (s *StudySession) DurationHours() float64 {
	return math.Round(s.Duration*100) / 100
}
