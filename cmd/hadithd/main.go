package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hadith_master/internal/app"
	"hadith_master/internal/infra/cache"
	"hadith_master/internal/infra/config"
	idb "hadith_master/internal/infra/database"
	"hadith_master/internal/infra/logger"
	"hadith_master/internal/infra/scheduler"
	"hadith_master/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get().WithField("app", "hadithd")
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
	}).Info("Configuration loaded.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.OpenContentStore(ctx, cfg.DatabaseURL, idb.DefaultPool)
	if err != nil {
		log.WithError(err).Fatal("Could not open content store")
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	hadithRepo := idb.NewPostgresHadithRepository(db, log)
	scheduleRepo := idb.NewPostgresScheduleRepository(db, log)

	if cfg.SeedFile != "" {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			log.WithError(err).Fatal("Could not open seed file")
		}
		_, err = app.SeedHadiths(ctx, hadithRepo, f, log)
		f.Close()
		if err != nil {
			log.WithError(err).Fatal("Could not seed hadiths")
		}
	}

	// Local cache
	localCache, err := cache.OpenSQLite(cfg.CachePath)
	if err != nil {
		log.WithError(err).Fatal("Could not open local cache")
	}
	defer localCache.Close()

	dailyService := app.NewDailyService(hadithRepo, scheduleRepo, localCache, cfg.Location, log)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}

	broadcastService := app.NewBroadcastService(
		hadithRepo,
		scheduleRepo,
		telegram.NewChatSender(bot),
		telegram.FormatHadith,
		cfg.BroadcastChatID,
		cfg.Location,
		log,
	)

	dailyScheduler := scheduler.NewDailyScheduler(
		dailyService,
		broadcastService,
		log,
		cfg.Location,
		cfg.CronSpecScheduleTomorrow,
		cfg.CronSpecDailyBroadcast,
	)
	if err := dailyScheduler.Start(); err != nil {
		log.WithError(err).Fatal("Could not start scheduler")
	}

	// Make sure tomorrow is covered even if the process starts after the evening job.
	if _, _, err := dailyService.EnsureTomorrowScheduled(ctx, time.Now()); err != nil {
		log.WithError(err).Warn("Initial scheduling of tomorrow's hadith failed")
	}

	daily := telegram.NewDailyCommands(dailyService, cfg.AdminTelegramID, log)
	telegram.RegisterBotCommands(ctx, bot, daily, log)
	log.Info("Bot command handlers registered.")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()
	log.Info("Application setup complete. Bot and scheduler are running.")

	<-ctx.Done()

	log.Info("Shutting down application...")
	bot.Stop()
	dailyScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
