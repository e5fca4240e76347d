package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hadith_master/internal/app"
	"hadith_master/internal/domain/hadith"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Replies shown instead of an error screen.
const defaultHadithText = "Verily, actions are judged by intentions. (Sahih al-Bukhari 1)\n\n" +
	"No hadith has been published yet. Please check back later."

const (
	tryLaterText      = "Could not load today's hadith right now. Please try again later."
	refreshBusyText   = "A refresh is already in progress."
	notAuthorizedText = "Error: you are not allowed to run this command."
)

// DailyResolver is the part of the daily service the bot needs.
type DailyResolver interface {
	ResolveToday(ctx context.Context, now time.Time) (*hadith.Hadith, error)
	ForceRefresh(ctx context.Context, now time.Time) (*hadith.Hadith, error)
}

// DailyCommands builds replies for the daily hadith commands.
type DailyCommands struct {
	resolver        DailyResolver
	adminTelegramID int64
	now             func() time.Time
	logger          *logrus.Entry

	refreshMu sync.Mutex
}

func NewDailyCommands(resolver DailyResolver, adminTelegramID int64, logger *logrus.Entry) *DailyCommands {
	return &DailyCommands{
		resolver:        resolver,
		adminTelegramID: adminTelegramID,
		now:             time.Now,
		logger:          logger.WithField("handler_group", "daily"),
	}
}

func (d *DailyCommands) todayReply(ctx context.Context) string {
	h, err := d.resolver.ResolveToday(ctx, d.now())
	if err != nil {
		return d.failureReply(err)
	}
	return FormatHadith(h)
}

// refreshReply runs at most one ForceRefresh at a time; overlapping requests
// are turned away rather than queued.
func (d *DailyCommands) refreshReply(ctx context.Context, senderID int64) string {
	logCtx := d.logger.WithField("sender_id", senderID)
	if d.adminTelegramID == 0 || senderID != d.adminTelegramID {
		logCtx.Warn("Unauthorized refresh attempt")
		return notAuthorizedText
	}
	if !d.refreshMu.TryLock() {
		logCtx.Info("Refresh already running")
		return refreshBusyText
	}
	defer d.refreshMu.Unlock()

	h, err := d.resolver.ForceRefresh(ctx, d.now())
	if err != nil {
		return d.failureReply(err)
	}
	logCtx.WithField("hadith_id", h.ID).Info("Daily hadith refreshed by admin")
	return FormatHadith(h)
}

func (d *DailyCommands) failureReply(err error) string {
	if errors.Is(err, app.ErrNotFound) {
		d.logger.WithError(err).Warn("No hadith available, sending default text")
		return defaultHadithText
	}
	d.logger.WithError(err).Error("Failed to resolve daily hadith")
	return tryLaterText
}

// RegisterBotCommands wires the bot commands to their handlers.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	daily *DailyCommands,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")
	htmlOpts := &telebot.SendOptions{ParseMode: telebot.ModeHTML}

	b.Handle("/start", func(c telebot.Context) error {
		startHelpLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID).Info("Processing /start command")
		return c.Send("Assalamu alaikum! I share one hadith every day. Send /today to read today's hadith.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID).Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("/today - show today's hadith\n")
		if senderID == daily.adminTelegramID && senderID != 0 {
			helpText.WriteString("/refresh - re-resolve today's hadith, ignoring the cache\n")
		}
		helpText.WriteString("/help - show this message")
		return c.Send(helpText.String())
	})

	b.Handle("/today", func(c telebot.Context) error {
		daily.logger.WithField("command", "/today").WithField("sender_id", c.Sender().ID).Info("Processing /today command")
		return c.Send(daily.todayReply(ctx), htmlOpts)
	})

	b.Handle("/refresh", func(c telebot.Context) error {
		daily.logger.WithField("command", "/refresh").WithField("sender_id", c.Sender().ID).Info("Processing /refresh command")
		return c.Send(daily.refreshReply(ctx, c.Sender().ID), htmlOpts)
	})
}
