package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda-bjj/internal/bot"
	"agenda-bjj/internal/config"
	"agenda-bjj/internal/repository"
	"agenda-bjj/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	scheduleSvc := service.NewScheduleService(scheduleRepo, categoryRepo, userRepo)
	ledger := service.NewReminderLedger()
	reminderSvc := service.NewReminderService(scheduleSvc, ledger, loc)

	telegramBot, err := bot.New(scheduleSvc, reminderSvc, cfg, loc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleWeekdays(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SweepReminders(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule sweep: %v", err)
	}
	if _, err := scheduler.ScheduleDaily(cfg.CleanupTime, telegramBot.CleanupLedger); err != nil {
		log.Fatalf("schedule cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Agenda bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
