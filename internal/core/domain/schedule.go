package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrScheduleSubjectEmpty   = errors.New("scheduled session subject cannot be empty")
	ErrScheduleSubjectTooLong = errors.New("scheduled session subject is too long (max 100 chars)")
	ErrScheduleInvalidUserID  = errors.New("invalid user id")
	ErrScheduleInvalidRange   = errors.New("scheduled session must end after it starts")
	ErrInvalidColor           = errors.New("invalid color format (must be #RRGGBB)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const DefaultScheduleColor = "#3b82f6"

type ScheduledSession struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Subject   string    `json:"subject" db:"subject"`
	Start     time.Time `json:"start" db:"start_datetime"`
	End       time.Time `json:"end" db:"end_datetime"`
	Notes     string    `json:"notes" db:"notes"`
	Color     string    `json:"color" db:"color"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validateSchedule(subject, color string, start, end time.Time) error {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return ErrScheduleSubjectEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxSubjectLen {
		return ErrScheduleSubjectTooLong
	}
	if !end.After(start) {
		return ErrScheduleInvalidRange
	}
	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

func NewScheduledSession(userID, subject, notes, color string, start, end time.Time) (*ScheduledSession, error) {
	if userID == "" {
		return nil, ErrScheduleInvalidUserID
	}
	if err := validateSchedule(subject, color, start, end); err != nil {
		return nil, err
	}
	if color == "" {
		color = DefaultScheduleColor
	}

	now := time.Now().UTC()
	return &ScheduledSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Subject:   strings.TrimSpace(subject),
		Start:     start.UTC(),
		End:       end.UTC(),
		Notes:     strings.TrimSpace(notes),
		Color:     color,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *ScheduledSession) Reschedule(subject, notes, color string, start, end time.Time) error {
	if err := validateSchedule(subject, color, start, end); err != nil {
		return err
	}
	if color == "" {
		color = DefaultScheduleColor
	}

	s.Subject = strings.TrimSpace(subject)
	s.Notes = strings.TrimSpace(notes)
	s.Color = color
	s.Start = start.UTC()
	s.End = end.UTC()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *ScheduledSession) DurationMinutes() int {
	return int(s.End.Sub(s.Start).Minutes())
}

func (s *ScheduledSession) DurationHours() float64 {
	return math.Round(float64(s.DurationMinutes())/60*100) / 100
}

// Weekday counts from Monday (0) to Sunday (6).
func (s *ScheduledSession) Weekday() int {
	return (int(s.Start.Weekday()) + 6) % 7
}

type CalendarEvent struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	Color           string             `json:"color"`
	Notes           string             `json:"notes"`
	UserID          string             `json:"user_id"`
	DurationMinutes int                `json:"duration_minutes"`
	DurationHours   float64            `json:"duration_hours"`
	Version         int                `json:"version"`
	ExtendedProps   CalendarExtraProps `json:"extendedProps"`
}

type CalendarExtraProps struct {
	Notes string `json:"notes"`
}

// CalendarEvent renders the session in the shape calendar widgets consume.
func (s *ScheduledSession) CalendarEvent() CalendarEvent {
	return CalendarEvent{
		ID:              s.ID,
		Title:           s.Subject,
		Start:           s.Start,
		End:             s.End,
		Color:           s.Color,
		Notes:           s.Notes,
		UserID:          s.UserID,
		DurationMinutes: s.DurationMinutes(),
		DurationHours:   s.DurationHours(),
		Version:         s.Version,
		ExtendedProps:   CalendarExtraProps{Notes: s.Notes},
	}
}
