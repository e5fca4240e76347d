package hadith

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("hadith not found")
var ErrAlreadyExists = errors.New("hadith with this ID already exists")

// Repository defines the read surface of the hadith collection used by the daily flow.
type Repository interface {
	// Create returns ErrAlreadyExists when the ID is taken.
	Create(ctx context.Context, h *Hadith) error
	// GetByID returns ErrNotFound when no valid hadith has the ID.
	GetByID(ctx context.Context, id string) (*Hadith, error)
	// ListActive returns active hadiths; limit <= 0 means no limit.
	ListActive(ctx context.Context, limit int) ([]*Hadith, error)
}
