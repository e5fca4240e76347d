package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hadith_master/internal/domain/hadith"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.Array
	"github.com/sirupsen/logrus"
)

const hadithColumns = `id, arabic_text, text, narrator, book, book_number, hadith_number,
	chapter, category, difficulty, tags, is_active, created_at`

type PostgresHadithRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

func NewPostgresHadithRepository(db *sql.DB, logger *logrus.Entry) *PostgresHadithRepository {
	return &PostgresHadithRepository{db: db, logger: logger.WithField("repository", "hadiths")}
}

func (r *PostgresHadithRepository) Create(ctx context.Context, h *hadith.Hadith) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if err := h.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid hadith: %w", err)
	}
	query := `INSERT INTO hadiths (id, arabic_text, text, narrator, book, book_number, hadith_number,
	               chapter, category, difficulty, tags, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (id) DO NOTHING
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		h.ID, h.ArabicText, h.Text, h.Narrator, h.Book,
		nullInt(h.BookNumber), nullInt(h.HadithNumber),
		h.Chapter, h.Category, h.Difficulty, pq.Array(h.Tags), h.IsActive,
	).Scan(&h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) { // ON CONFLICT swallowed the insert
			return hadith.ErrAlreadyExists
		}
		return fmt.Errorf("error creating hadith: %w", err)
	}
	return nil
}

func (r *PostgresHadithRepository) GetByID(ctx context.Context, id string) (*hadith.Hadith, error) {
	query := `SELECT ` + hadithColumns + ` FROM hadiths WHERE id = $1`
	h, err := scanHadith(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hadith.ErrNotFound
		}
		return nil, fmt.Errorf("error getting hadith by ID: %w", err)
	}
	if err := h.Validate(); err != nil {
		r.logger.WithError(err).WithField("hadith_id", id).Warn("Stored hadith is invalid, treating as missing")
		return nil, hadith.ErrNotFound
	}
	return h, nil
}

func (r *PostgresHadithRepository) ListActive(ctx context.Context, limit int) ([]*hadith.Hadith, error) {
	query := `SELECT ` + hadithColumns + ` FROM hadiths WHERE is_active = TRUE ORDER BY created_at, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing active hadiths: %w", err)
	}
	defer rows.Close()

	hadiths := make([]*hadith.Hadith, 0)
	for rows.Next() {
		h, err := scanHadith(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning active hadith: %w", err)
		}
		if err := h.Validate(); err != nil {
			r.logger.WithError(err).Warn("Skipping invalid hadith row")
			continue
		}
		hadiths = append(hadiths, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active hadiths: %w", err)
	}
	return hadiths, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHadith(row rowScanner) (*hadith.Hadith, error) {
	h := &hadith.Hadith{}
	var bookNumber, hadithNumber sql.NullInt64
	err := row.Scan(
		&h.ID, &h.ArabicText, &h.Text, &h.Narrator, &h.Book, &bookNumber, &hadithNumber,
		&h.Chapter, &h.Category, &h.Difficulty, pq.Array(&h.Tags), &h.IsActive, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.BookNumber = int(bookNumber.Int64)
	h.HadithNumber = int(hadithNumber.Int64)
	return h, nil
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v > 0}
}
