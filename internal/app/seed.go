package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"hadith_master/internal/domain/hadith"

	"github.com/sirupsen/logrus"
)

// seedEntry lets an omitted isActive default to true.
type seedEntry struct {
	hadith.Hadith
	IsActive *bool `json:"isActive"`
}

// SeedHadiths inserts the hadiths of a JSON array read from r. Entries whose ID
// already exists are skipped, as are null entries. Entries without "isActive"
// are stored as active. It returns the number of inserted hadiths.
func SeedHadiths(ctx context.Context, repo hadith.Repository, r io.Reader, logger *logrus.Entry) (int, error) {
	var entries []*seedEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decoding seed file: %w", err)
	}

	inserted := 0
	for i, e := range entries {
		if e == nil {
			logger.WithField("entry", i).Warn("Seed entry is null, skipping")
			continue
		}
		h := e.Hadith
		h.IsActive = e.IsActive == nil || *e.IsActive

		err := repo.Create(ctx, &h)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, hadith.ErrAlreadyExists):
			logger.WithField("hadith_id", h.ID).Debug("Seed hadith already present, skipping")
		default:
			return inserted, fmt.Errorf("seeding entry %d: %w", i, err)
		}
	}
	logger.WithFields(logrus.Fields{"inserted": inserted, "total": len(entries)}).Info("Seed file processed")
	return inserted, nil
}
