package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"hadith_master/internal/domain/hadith"
	"hadith_master/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// Application-level errors surfaced by the daily flow.
var ErrNotFound = errors.New("no hadith available for the day")
var ErrStoreUnavailable = errors.New("content store unavailable")

// DayKey returns the calendar day of now in loc, formatted as YYYY-MM-DD.
func DayKey(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(schedule.DateLayout)
}

type DailyOption func(*DailyService)

// WithRandom replaces the uniform draw used for random selection.
// intn must return a value in [0, n).
func WithRandom(intn func(n int) int) DailyOption {
	return func(s *DailyService) { s.intn = intn }
}

// DailyService decides which hadith is presented for a calendar day.
// It performs no locking; callers serialize ForceRefresh themselves.
type DailyService struct {
	hadithRepo   hadith.Repository
	scheduleRepo schedule.Repository
	cache        Cache
	loc          *time.Location
	logger       *logrus.Entry
	intn         func(n int) int
}

func NewDailyService(
	hr hadith.Repository,
	sr schedule.Repository,
	cache Cache,
	loc *time.Location,
	logger *logrus.Entry,
	opts ...DailyOption,
) *DailyService {
	if loc == nil {
		loc = time.Local
	}
	s := &DailyService{
		hadithRepo:   hr,
		scheduleRepo: sr,
		cache:        cache,
		loc:          loc,
		logger:       logger.WithField("component", "daily_service"),
		intn:         rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveToday returns the hadith for the calendar day of now.
// A cached value stamped with today is returned without touching the store.
// When the store fails, any cached value (even from an earlier day) is
// returned instead of the error.
func (s *DailyService) ResolveToday(ctx context.Context, now time.Time) (*hadith.Hadith, error) {
	day := DayKey(now, s.loc)
	log := s.logger.WithField("day", day)

	cached, err := loadCached(ctx, s.cache)
	if err != nil {
		log.WithError(err).Warn("Cache read failed, treating as miss")
		cached = nil
	}
	if cached != nil && cached.Day == day {
		log.WithField("hadith_id", cached.Hadith.ID).Debug("Daily hadith served from cache")
		return cached.Hadith, nil
	}

	h, err := s.resolve(ctx, day)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) && cached != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"cached_day": cached.Day,
				"hadith_id":  cached.Hadith.ID,
			}).Warn("Store unavailable, serving stale cached hadith")
			return cached.Hadith, nil
		}
		return nil, err
	}

	s.remember(ctx, log, day, h)
	return h, nil
}

// ForceRefresh drops the cached pair and resolves the day again from the store.
func (s *DailyService) ForceRefresh(ctx context.Context, now time.Time) (*hadith.Hadith, error) {
	day := DayKey(now, s.loc)
	log := s.logger.WithField("day", day)

	if err := clearCached(ctx, s.cache); err != nil {
		log.WithError(err).Warn("Failed to clear cached daily hadith")
	}

	h, err := s.resolve(ctx, day)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, log, day, h)
	log.WithField("hadith_id", h.ID).Info("Daily hadith refreshed")
	return h, nil
}

// IsFreshForToday reports whether the cache holds a value stamped for now's day.
func (s *DailyService) IsFreshForToday(ctx context.Context, now time.Time) bool {
	cached, err := loadCached(ctx, s.cache)
	if err != nil || cached == nil {
		return false
	}
	return cached.Day == DayKey(now, s.loc)
}

// EnsureTomorrowScheduled creates the schedule row for the day after now
// unless one exists. created is false when an existing row was found.
func (s *DailyService) EnsureTomorrowScheduled(ctx context.Context, now time.Time) (row *schedule.Schedule, created bool, err error) {
	tomorrow := now.In(s.loc).AddDate(0, 0, 1)
	return s.ensureScheduled(ctx, DayKey(tomorrow, s.loc))
}

// EnsureTodayScheduled is the catch-up variant used when the evening run was missed.
func (s *DailyService) EnsureTodayScheduled(ctx context.Context, now time.Time) (*schedule.Schedule, bool, error) {
	return s.ensureScheduled(ctx, DayKey(now, s.loc))
}

func (s *DailyService) ensureScheduled(ctx context.Context, day string) (*schedule.Schedule, bool, error) {
	log := s.logger.WithField("day", day)

	existing, err := s.scheduleRepo.GetByDate(ctx, day)
	if err == nil {
		log.WithField("schedule_id", existing.ID).Info("Schedule already exists, nothing to do")
		return existing, false, nil
	}
	if !errors.Is(err, schedule.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: looking up schedule for %s: %w", ErrStoreUnavailable, day, err)
	}

	pick, err := s.pickRandomActive(ctx)
	if err != nil {
		return nil, false, err
	}

	row := &schedule.Schedule{
		Date:       day,
		HadithID:   pick.ID,
		IsFeatured: true,
	}
	if err := s.scheduleRepo.Create(ctx, row); err != nil {
		if errors.Is(err, schedule.ErrDuplicateDate) {
			log.Info("Schedule was created concurrently, using existing row")
			existing, getErr := s.scheduleRepo.GetByDate(ctx, day)
			if getErr != nil {
				return nil, false, fmt.Errorf("%w: re-reading schedule for %s: %w", ErrStoreUnavailable, day, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("%w: creating schedule for %s: %w", ErrStoreUnavailable, day, err)
	}

	log.WithFields(logrus.Fields{
		"schedule_id": row.ID,
		"hadith_id":   row.HadithID,
	}).Info("Scheduled daily hadith")
	return row, true, nil
}

// resolve looks up the scheduled hadith for day and falls back to a random
// active one. Store failures are wrapped with ErrStoreUnavailable.
func (s *DailyService) resolve(ctx context.Context, day string) (*hadith.Hadith, error) {
	log := s.logger.WithField("day", day)

	row, err := s.scheduleRepo.GetByDate(ctx, day)
	switch {
	case err == nil:
		h, err := s.hadithRepo.GetByID(ctx, row.HadithID)
		if err == nil {
			log.WithField("hadith_id", h.ID).Debug("Resolved scheduled hadith")
			return h, nil
		}
		if !errors.Is(err, hadith.ErrNotFound) {
			return nil, fmt.Errorf("%w: fetching hadith %s: %w", ErrStoreUnavailable, row.HadithID, err)
		}
		log.WithFields(logrus.Fields{
			"schedule_id": row.ID,
			"hadith_id":   row.HadithID,
		}).Warn("Schedule references a missing hadith, falling back to random selection")
	case errors.Is(err, schedule.ErrNotFound):
		log.Debug("No schedule for day, falling back to random selection")
	default:
		return nil, fmt.Errorf("%w: looking up schedule for %s: %w", ErrStoreUnavailable, day, err)
	}

	return s.pickRandomActive(ctx)
}

func (s *DailyService) pickRandomActive(ctx context.Context) (*hadith.Hadith, error) {
	active, err := s.hadithRepo.ListActive(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: listing active hadiths: %w", ErrStoreUnavailable, err)
	}
	if len(active) == 0 {
		return nil, ErrNotFound
	}
	return active[s.intn(len(active))], nil
}

func (s *DailyService) remember(ctx context.Context, log *logrus.Entry, day string, h *hadith.Hadith) {
	if err := storeCached(ctx, s.cache, day, h); err != nil {
		log.WithError(err).WithField("hadith_id", h.ID).Warn("Failed to cache daily hadith")
	}
}
