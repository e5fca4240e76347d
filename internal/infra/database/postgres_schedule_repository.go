package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hadith_master/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type PostgresScheduleRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

func NewPostgresScheduleRepository(db *sql.DB, logger *logrus.Entry) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db, logger: logger.WithField("repository", "daily_hadith_schedule")}
}

// GetByDate takes the oldest row for the date. With the unique index there is
// at most one; without it the pick is still stable.
func (r *PostgresScheduleRepository) GetByDate(ctx context.Context, date string) (*schedule.Schedule, error) {
	query := `SELECT id, date, hadith_id, is_featured, sent, created_at, updated_at
	          FROM daily_hadith_schedule
	          WHERE date = $1
	          ORDER BY created_at, id
	          LIMIT 1`
	s := &schedule.Schedule{}
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&s.ID, &s.Date, &s.HadithID, &s.IsFeatured, &s.Sent, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrNotFound
		}
		return nil, fmt.Errorf("error getting schedule by date: %w", err)
	}
	if err := s.Validate(); err != nil {
		r.logger.WithError(err).WithField("date", date).Warn("Stored schedule is invalid, treating as missing")
		return nil, schedule.ErrNotFound
	}
	return s, nil
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid schedule: %w", err)
	}
	query := `INSERT INTO daily_hadith_schedule (id, date, hadith_id, is_featured, sent)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.Date, s.HadithID, s.IsFeatured, s.Sent).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return schedule.ErrDuplicateDate
		}
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE daily_hadith_schedule
	          SET sent = TRUE, updated_at = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking schedule as sent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
