package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

var _ domain.ScheduleRepository = (*PostgresScheduleRepository)(nil)

const scheduleColumns = `id, user_id, subject, start_datetime, end_datetime,
	notes, color, version, created_at, updated_at`

type PostgresScheduleRepository struct {
	db *sqlx.DB
}

func NewPostgresScheduleRepository(db *sqlx.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, s *domain.ScheduledSession) error {
	query := `
		INSERT INTO scheduled_sessions (
			id, user_id, subject, start_datetime, end_datetime,
			notes, color, version, created_at, updated_at
		) VALUES (
			:id, :user_id, :subject, :start_datetime, :end_datetime,
			:notes, :color, :version, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if code, _, ok := pgError(err); ok {
			switch code {
			case pgForeignKeyViolation:
				return ErrSessionOwnerMissing
			case pgUniqueViolation:
				return domain.ErrScheduleConflict
			}
		}
		return fmt.Errorf("repository: create scheduled session failed: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledSession, error) {
	var s domain.ScheduledSession
	query := `SELECT ` + scheduleColumns + ` FROM scheduled_sessions WHERE id = $1`

	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresScheduleRepository) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduledSession, error) {
	list := []*domain.ScheduledSession{}

	query := `SELECT ` + scheduleColumns + `
		FROM scheduled_sessions
		WHERE user_id = $1
		  AND start_datetime >= $2
		  AND start_datetime < $3
		ORDER BY start_datetime ASC`

	if err := r.db.SelectContext(ctx, &list, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list scheduled sessions failed: %w", err)
	}
	return list, nil
}

func (r *PostgresScheduleRepository) Update(ctx context.Context, s *domain.ScheduledSession) error {
	s.Version++

	query := `
		UPDATE scheduled_sessions
		SET subject = :subject,
		    start_datetime = :start_datetime,
		    end_datetime = :end_datetime,
		    notes = :notes,
		    color = :color,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		s.Version--
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		s.Version--
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: version mismatch", domain.ErrScheduleConflict)
	}
	return nil
}

func (r *PostgresScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}
