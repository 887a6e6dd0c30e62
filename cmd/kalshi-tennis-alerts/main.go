package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/config"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/kalshi"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/logger"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/pushover"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/storage"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/telegram"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/tracker"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/watcher"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Logging.File != "" {
		logger.InitWithFile(cfg.Logging.Level, cfg.Logging.Format, logger.FileOutput{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
	} else {
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	}

	var journal watcher.AlertJournal
	if cfg.Storage.Enabled {
		store, err := storage.New(cfg.Storage.DBPath)
		if err != nil {
			logger.Fatal("Failed to initialize alert journal: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close alert journal: %v", err)
			}
		}()
		journal = store
	}

	kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.Limit, cfg.Kalshi.Timeout)

	notifiers := []watcher.Notifier{
		pushover.NewClient(cfg.Pushover.Endpoint, cfg.Pushover.Token, cfg.Pushover.UserKey, cfg.Pushover.Timeout),
	}
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		notifiers = append(notifiers, telegramClient)
		logger.Info("Telegram channel enabled")
	}

	w := watcher.New(kalshiClient, tracker.New(), notifiers, journal, watcher.Config{
		Keyword:          cfg.Watch.Keyword,
		OpeningThreshold: cfg.Watch.OpeningThreshold,
		DropThreshold:    cfg.Watch.DropThreshold,
		ConfirmTicks:     cfg.Watch.ConfirmTicks,
		AdmissionWindow:  cfg.Watch.AdmissionWindow,
		AlertTitle:       cfg.Watch.AlertTitle,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	logger.Info("Kalshi tennis alerts running (keyword: %q, poll interval: %v, admission window: %v)",
		cfg.Watch.Keyword, cfg.Watch.PollInterval, cfg.Watch.AdmissionWindow)

	// The wait is measured from the end of one cycle to the start of the
	// next, stretched after a failed cycle, so a timer is used instead of
	// a wall-aligned ticker.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return
		case <-timer.C:
		}

		wait := cfg.Watch.PollInterval
		if err := w.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("Service stopped")
				return
			}
			logger.Error("Cycle failed: %v", err)
			wait = cfg.Watch.ErrorBackoff
		}

		timer.Reset(wait)
	}
}
