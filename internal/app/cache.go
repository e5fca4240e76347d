package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hadith_master/internal/domain/hadith"
)

const (
	cacheKeyHadith = "daily_hadith"
	cacheKeyDate   = "daily_hadith_date"
)

// Cache is a durable key-value store local to the presentation process.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// cachedDaily is the resolved hadith together with the day it was resolved for.
type cachedDaily struct {
	Day    string
	Hadith *hadith.Hadith
}

// loadCached reads both halves of the cached pair. A missing half or a payload
// that does not decode is reported as absent.
func loadCached(ctx context.Context, c Cache) (*cachedDaily, error) {
	day, ok, err := c.Get(ctx, cacheKeyDate)
	if err != nil {
		return nil, fmt.Errorf("reading cache date: %w", err)
	}
	if !ok || day == "" {
		return nil, nil
	}
	raw, ok, err := c.Get(ctx, cacheKeyHadith)
	if err != nil {
		return nil, fmt.Errorf("reading cached hadith: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var h hadith.Hadith
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, nil
	}
	if h.Validate() != nil {
		return nil, nil
	}
	return &cachedDaily{Day: day, Hadith: &h}, nil
}

// batchSetter is implemented by caches that can write several keys in one
// transaction.
type batchSetter interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// storeCached writes the hadith and its day stamp as a pair. Caches without
// batch writes get the hadith first and the stamp last; if the stamp cannot be
// written the previous hadith is put back so an earlier pair stays usable as a
// stale fallback. If that also fails the stamp is removed, because the old
// stamp next to the new hadith would read as a valid pair.
func storeCached(ctx context.Context, c Cache, day string, h *hadith.Hadith) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding hadith %s: %w", h.ID, err)
	}

	if bs, ok := c.(batchSetter); ok {
		if err := bs.SetMany(ctx, map[string]string{
			cacheKeyHadith: string(payload),
			cacheKeyDate:   day,
		}); err != nil {
			return fmt.Errorf("writing cached pair: %w", err)
		}
		return nil
	}

	prev, hadPrev, err := c.Get(ctx, cacheKeyHadith)
	if err != nil {
		return fmt.Errorf("reading cached hadith: %w", err)
	}
	if err := c.Set(ctx, cacheKeyHadith, string(payload)); err != nil {
		return fmt.Errorf("writing cached hadith: %w", err)
	}
	if err := c.Set(ctx, cacheKeyDate, day); err != nil {
		err = fmt.Errorf("writing cache date: %w", err)
		if restoreErr := restoreHadith(ctx, c, prev, hadPrev); restoreErr != nil {
			if rmErr := c.Remove(ctx, cacheKeyDate); rmErr != nil {
				return errors.Join(err, restoreErr, fmt.Errorf("removing cache date: %w", rmErr))
			}
			return errors.Join(err, restoreErr)
		}
		return err
	}
	return nil
}

func restoreHadith(ctx context.Context, c Cache, prev string, hadPrev bool) error {
	if !hadPrev {
		if err := c.Remove(ctx, cacheKeyHadith); err != nil {
			return fmt.Errorf("removing cached hadith: %w", err)
		}
		return nil
	}
	if err := c.Set(ctx, cacheKeyHadith, prev); err != nil {
		return fmt.Errorf("restoring cached hadith: %w", err)
	}
	return nil
}

// clearCached removes the day stamp before the hadith so a partial failure
// never leaves a stamped pair behind.
func clearCached(ctx context.Context, c Cache) error {
	if err := c.Remove(ctx, cacheKeyDate); err != nil {
		return fmt.Errorf("removing cache date: %w", err)
	}
	if err := c.Remove(ctx, cacheKeyHadith); err != nil {
		return fmt.Errorf("removing cached hadith: %w", err)
	}
	return nil
}
