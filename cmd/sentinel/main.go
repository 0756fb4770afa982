package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CashSentinel/internal/analytics"
	"CashSentinel/internal/config"
	"CashSentinel/internal/dedupe"
	"CashSentinel/internal/notifier"
	"CashSentinel/internal/recorder"
	"CashSentinel/internal/scheduler"
	"CashSentinel/internal/source"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.Info("CashSentinel starting...")

	// Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("config validation")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init transaction source
	db, err := source.OpenSQL(ctx, cfg.Source.Driver, cfg.Source.DSN)
	if err != nil {
		logger.WithError(err).Fatal("open transaction source")
	}
	defer db.Close()
	src, err := source.NewSQLSource(db, cfg.Source.Driver, cfg.Source.Table)
	if err != nil {
		logger.WithError(err).Fatal("init transaction source")
	}
	logger.WithFields(logrus.Fields{"driver": src.Name(), "table": cfg.Source.Table}).Info("transaction source ready")

	an := analytics.NewAnalyzer(src, logger)
	an.HistoryMonths = cfg.Analysis.HistoryMonths

	// Init notifiers
	var channels notifier.Multi
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		channels = append(channels, tn)
	}
	if cfg.EmailEnabled() {
		channels = append(channels, notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		}, logger))
	}
	for _, n := range channels {
		logger.WithField("channel", n.Name()).Info("notification channel enabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init alert de-duplication
	var dd dedupe.Deduper
	if cfg.Redis.URL != "" {
		rd, err := dedupe.NewRedisDeduper(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			logger.WithError(err).Fatal("connect redis")
		}
		defer rd.Close()
		dd = rd
		logger.Info("alert de-duplication: redis")
	} else {
		fd, err := dedupe.NewFileDeduper(cfg.Dedupe.StateFile, cfg.Dedupe.TTL)
		if err != nil {
			logger.WithError(err).Fatal("init alert state")
		}
		dd = fd
		logger.WithField("state_file", cfg.Dedupe.StateFile).Info("alert de-duplication: file")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, an, channels, rec, dd, cfg.Businesses, logger)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.MonthlyCron); err != nil {
		logger.WithError(err).Fatal("register cron tasks")
	}
	sched.Start()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing daily task now")
		sched.RunDailyAsync()
	}

	logger.Info("CashSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping...")
	// Let in-flight jobs finish their deliveries before the context is cancelled.
	sched.Stop()
	cancel()
	logger.Info("CashSentinel stopped")
}
