package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hadith_master/internal/domain/hadith"
	"hadith_master/internal/domain/schedule"
	domainTelegram "hadith_master/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// BroadcastService posts the scheduled hadith of the day to a chat once.
type BroadcastService struct {
	hadithRepo     hadith.Repository
	scheduleRepo   schedule.Repository
	telegramClient domainTelegram.Client
	format         func(*hadith.Hadith) string
	chatID         int64
	loc            *time.Location
	logger         *logrus.Entry
}

func NewBroadcastService(
	hr hadith.Repository,
	sr schedule.Repository,
	tc domainTelegram.Client,
	format func(*hadith.Hadith) string,
	chatID int64,
	loc *time.Location,
	logger *logrus.Entry,
) *BroadcastService {
	if loc == nil {
		loc = time.Local
	}
	return &BroadcastService{
		hadithRepo:     hr,
		scheduleRepo:   sr,
		telegramClient: tc,
		format:         format,
		chatID:         chatID,
		loc:            loc,
		logger:         logger.WithField("component", "broadcast_service"),
	}
}

// SendToday sends today's scheduled hadith unless it was already sent.
// It returns true when a message went out. A failed send leaves the row
// unsent so the next run retries.
func (s *BroadcastService) SendToday(ctx context.Context, now time.Time) (bool, error) {
	day := DayKey(now, s.loc)
	log := s.logger.WithField("day", day)

	if s.chatID == 0 {
		log.Warn("Broadcast chat ID not configured. Skipping daily broadcast.")
		return false, nil
	}

	row, err := s.scheduleRepo.GetByDate(ctx, day)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			log.Info("No schedule for today. Nothing to broadcast.")
			return false, nil
		}
		return false, fmt.Errorf("%w: looking up schedule for %s: %w", ErrStoreUnavailable, day, err)
	}
	log = log.WithField("schedule_id", row.ID)

	if row.Sent {
		log.Info("Daily hadith already broadcast. Skipping.")
		return false, nil
	}

	h, err := s.hadithRepo.GetByID(ctx, row.HadithID)
	if err != nil {
		if errors.Is(err, hadith.ErrNotFound) {
			log.WithField("hadith_id", row.HadithID).Warn("Scheduled hadith does not exist. Skipping broadcast.")
			return false, ErrNotFound
		}
		return false, fmt.Errorf("%w: fetching hadith %s: %w", ErrStoreUnavailable, row.HadithID, err)
	}

	err = s.telegramClient.SendMessage(s.chatID, s.format(h), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		log.WithError(err).Error("Failed to send daily hadith")
		return false, fmt.Errorf("failed to send daily hadith for %s: %w", day, err)
	}

	if err := s.scheduleRepo.MarkSent(ctx, row.ID); err != nil {
		// Message already delivered; report it as sent.
		log.WithError(err).Error("Daily hadith sent but marking the schedule as sent failed")
		return true, nil
	}
	log.WithField("hadith_id", h.ID).Info("Daily hadith broadcast")
	return true, nil
}
