package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"GambleBench/internal/config"
	"GambleBench/internal/house"
	"GambleBench/internal/logging"
	"GambleBench/internal/metrics"
	"GambleBench/internal/notifier"
	"GambleBench/internal/progress"
	"GambleBench/internal/recorder"
	"GambleBench/internal/runner"
	"GambleBench/internal/scheduler"
)

func main() {
	// Failures are reported, never turned into a non-zero exit status.
	if err := run(); err != nil {
		fmt.Println(notifier.FormatError(err))
	}
}

func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger := logging.NewLogger(cfg.Log.Level)
	logger.Info().Msg("GambleBench starting...")

	// Init house client
	h := house.NewHTTPHouse(cfg.House.URL, cfg.Proxy, cfg.House.RequestTimeout, logger)
	logger.Info().Str("house", h.Name()).Str("url", cfg.House.URL).Msg("house configured")

	var opts []runner.Option
	if cfg.Run.Progress == nil || *cfg.Run.Progress {
		opts = append(opts, runner.WithProgress(func(total int) progress.Tracker {
			return progress.NewBar(os.Stderr, total)
		}))
	}
	rn := runner.New(cfg.RunnerConfig(), h, logger, opts...)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init notifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		n = tn
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer srv.Close()
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics server started")
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, rn, rec, n, logger)
	sched.StrategyDir = cfg.Strategy.Dir
	sched.StrategyFile = cfg.Strategy.File
	sched.OutcomeFile = cfg.Database.OutcomeFile

	if cfg.Schedule.Cron == "" {
		return evaluateOnce(sched)
	}
	return daemon(ctx, cfg, sched, tn, logger)
}

func evaluateOnce(sched *scheduler.Scheduler) error {
	ev, err := sched.RunOnce()
	if err != nil {
		return err
	}
	fmt.Println(notifier.FormatSummary(ev))
	return nil
}

func daemon(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, tn *notifier.TelegramNotifier, logger zerolog.Logger) error {
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, evaluating now")
		sched.HandleCommand("/run")
	}

	logger.Info().Str("cron", cfg.Schedule.Cron).Msg("GambleBench is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	logger.Info().Msg("shutdown signal received, stopping...")
	return nil
}
