package schedule

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("daily schedule not found")
var ErrDuplicateDate = errors.New("daily schedule for this date already exists")

// Repository defines operations on the daily schedule collection.
type Repository interface {
	// GetByDate returns the first row for the date (oldest first) or ErrNotFound.
	GetByDate(ctx context.Context, date string) (*Schedule, error)
	// Create returns ErrDuplicateDate when the date already has a row.
	Create(ctx context.Context, s *Schedule) error
	MarkSent(ctx context.Context, id string) error
}
