package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

var _ domain.StudySessionRepository = (*PostgresStudySessionRepository)(nil)

var ErrSessionOwnerMissing = errors.New("referenced user does not exist")

const sessionColumns = `id, user_id, subject, duration, date, start_time, end_time,
	notes, mood, focus_level, distractions, version, created_at, updated_at`

type PostgresStudySessionRepository struct {
	db *sqlx.DB
}

func NewPostgresStudySessionRepository(db *sqlx.DB) *PostgresStudySessionRepository {
	return &PostgresStudySessionRepository{db: db}
}

func (r *PostgresStudySessionRepository) Create(ctx context.Context, session *domain.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	query := `
		INSERT INTO study_sessions (
			id, user_id, subject, duration, date,
			start_time, end_time, notes, mood, focus_level, distractions,
			version, created_at, updated_at
		) VALUES (
			:id, :user_id, :subject, :duration, :date,
			:start_time, :end_time, :notes, :mood, :focus_level, :distractions,
			:version, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		if code, _, ok := pgError(err); ok {
			switch code {
			case pgForeignKeyViolation:
				return ErrSessionOwnerMissing
			case pgUniqueViolation:
				return domain.ErrSessionConflict
			}
		}
		return fmt.Errorf("repository: create study session failed: %w", err)
	}
	return nil
}

func (r *PostgresStudySessionRepository) GetByID(ctx context.Context, id string) (*domain.StudySession, error) {
	var session domain.StudySession
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = $1`

	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *PostgresStudySessionRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.StudySession, error) {
	sessions := []*domain.StudySession{}

	query := `SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC, start_time ASC NULLS LAST`

	if err := r.db.SelectContext(ctx, &sessions, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list study sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *PostgresStudySessionRepository) ListWithFocusLevel(ctx context.Context, userID string) ([]*domain.StudySession, error) {
	sessions := []*domain.StudySession{}

	query := `SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE focus_level IS NOT NULL
		  AND ($1 = '' OR user_id::text = $1)
		ORDER BY date ASC, created_at ASC`

	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list focused sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *PostgresStudySessionRepository) ListStudyDates(ctx context.Context, userID string) ([]time.Time, error) {
	dates := []time.Time{}

	query := `SELECT DISTINCT date FROM study_sessions WHERE user_id = $1 ORDER BY date DESC`

	if err := r.db.SelectContext(ctx, &dates, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list study dates failed: %w", err)
	}
	return dates, nil
}

func (r *PostgresStudySessionRepository) Update(ctx context.Context, session *domain.StudySession) error {
	session.Version++
	session.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE study_sessions
		SET subject = :subject,
		    duration = :duration,
		    date = :date,
		    start_time = :start_time,
		    end_time = :end_time,
		    notes = :notes,
		    mood = :mood,
		    focus_level = :focus_level,
		    distractions = :distractions,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		session.Version--
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		session.Version--
		exists, err := r.exists(ctx, session.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
		return domain.ErrSessionConflict
	}

	return nil
}

func (r *PostgresStudySessionRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func (r *PostgresStudySessionRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM study_sessions WHERE id = $1", id)
	return count > 0, err
}
