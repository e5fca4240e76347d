package scheduler

import (
	"context"
	"fmt"
	"time"

	"hadith_master/internal/domain/schedule"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Planner creates schedule rows ahead of time.
type Planner interface {
	EnsureTomorrowScheduled(ctx context.Context, now time.Time) (*schedule.Schedule, bool, error)
	EnsureTodayScheduled(ctx context.Context, now time.Time) (*schedule.Schedule, bool, error)
}

// Broadcaster posts today's scheduled hadith.
type Broadcaster interface {
	SendToday(ctx context.Context, now time.Time) (bool, error)
}

const (
	planTimeout      = 1 * time.Minute
	broadcastTimeout = 2 * time.Minute
)

type DailyScheduler struct {
	cronEngine        *cron.Cron
	planner           Planner
	broadcaster       Broadcaster
	logger            *logrus.Entry
	now               func() time.Time
	cronSpecTomorrow  string
	cronSpecBroadcast string
}

func NewDailyScheduler(
	planner Planner,
	broadcaster Broadcaster,
	logger *logrus.Entry,
	loc *time.Location,
	cronSpecTomorrow string, // e.g., "0 22 * * *" (10:00 PM daily)
	cronSpecBroadcast string, // e.g., "0 8 * * *" (8:00 AM daily)
) *DailyScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &DailyScheduler{
		cronEngine:        cron.New(cron.WithLocation(loc)),
		planner:           planner,
		broadcaster:       broadcaster,
		logger:            logger.WithField("component", "scheduler"),
		now:               time.Now,
		cronSpecTomorrow:  cronSpecTomorrow,
		cronSpecBroadcast: cronSpecBroadcast,
	}
}

// Start registers the daily jobs and starts the cron engine.
func (s *DailyScheduler) Start() error {
	s.logger.Info("Starting daily hadith scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecTomorrow, s.runScheduleTomorrow); err != nil {
		return fmt.Errorf("could not add schedule-tomorrow cron job: %w", err)
	}

	if s.broadcaster != nil {
		if _, err := s.cronEngine.AddFunc(s.cronSpecBroadcast, s.runDailyBroadcast); err != nil {
			return fmt.Errorf("could not add daily broadcast cron job: %w", err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"schedule_tomorrow": s.cronSpecTomorrow,
		"daily_broadcast":   s.cronSpecBroadcast,
	}).Info("Daily hadith scheduler started with jobs.")
	return nil
}

func (s *DailyScheduler) runScheduleTomorrow() {
	s.logger.Info("Cron job triggered for scheduling tomorrow's hadith.")
	ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
	defer cancel()

	row, created, err := s.planner.EnsureTomorrowScheduled(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule tomorrow's hadith")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"date":      row.Date,
		"hadith_id": row.HadithID,
		"created":   created,
	}).Info("Tomorrow's hadith is scheduled.")
}

// runDailyBroadcast makes sure today has a row (the evening job may have
// been missed) and then broadcasts it.
func (s *DailyScheduler) runDailyBroadcast() {
	s.logger.Info("Cron job triggered for daily broadcast.")
	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	now := s.now()
	if _, created, err := s.planner.EnsureTodayScheduled(ctx, now); err != nil {
		s.logger.WithError(err).Error("Failed to ensure today's schedule")
		return
	} else if created {
		s.logger.Warn("Today's hadith was not scheduled in advance; created it now.")
	}

	sent, err := s.broadcaster.SendToday(ctx, now)
	if err != nil {
		s.logger.WithError(err).Error("Error during daily broadcast")
		return
	}
	s.logger.WithField("sent", sent).Info("Daily broadcast finished.")
}

func (s *DailyScheduler) Stop() {
	s.logger.Info("Stopping daily hadith scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Daily hadith scheduler gracefully stopped.")
}
