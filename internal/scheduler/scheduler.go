package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"GambleBench/internal/ledger"
	"GambleBench/internal/model"
	"GambleBench/internal/notifier"
	"GambleBench/internal/recorder"
	"GambleBench/internal/runner"
	"GambleBench/internal/strategy"
)

// Scheduler loads the strategy, evaluates it, and fans the result out to the recorder,
// the outcome file and the notifier. Evaluations never overlap.
type Scheduler struct {
	Cron        *cron.Cron
	Runner      *runner.Runner
	Recorder    recorder.Recorder
	Notifier    notifier.Notifier
	Logger      zerolog.Logger
	StrategyDir string
	// StrategyFile, when set, bypasses directory selection.
	StrategyFile string
	OutcomeFile  string
	Ctx          context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, rn *runner.Runner, rec recorder.Recorder, n notifier.Notifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   rn,
		Recorder: rec,
		Notifier: n,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register schedules a re-evaluation on every tick of spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledTask); err != nil {
		return fmt.Errorf("register evaluation task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running evaluation to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunOnce loads the strategy and evaluates it. The returned Evaluation is nil only when
// the strategy could not be loaded.
func (s *Scheduler) RunOnce() (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.strategyPath()
	if err != nil {
		return nil, err
	}
	s.Logger.Info().Str("file", path).Msg("loading strategy")

	strat, err := strategy.Load(path)
	if err != nil {
		return nil, err
	}

	ev, err := s.Runner.Evaluate(s.Ctx, strat)
	ev.StrategyFile = path
	s.persist(ev)
	s.trySend(notifier.ReportMessage(ev))
	return ev, err
}

func (s *Scheduler) strategyPath() (string, error) {
	if s.StrategyFile != "" {
		return s.StrategyFile, nil
	}
	return strategy.FindStrategyFile(s.StrategyDir)
}

func (s *Scheduler) scheduledTask() {
	s.Logger.Info().Msg("running scheduled evaluation")
	ev, err := s.RunOnce()
	if err != nil {
		s.Logger.Error().Err(err).Msg("scheduled evaluation failed")
		if ev == nil {
			s.trySend(notifier.ErrorMessage(err))
		}
		return
	}
	s.Logger.Info().Str("summary", ev.Outcome.String()).Msg(ev.Verdict())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.scheduledTask()
		return "Evaluation started."
	case "/last":
		snap, err := ledger.LoadSnapshot(s.OutcomeFile)
		if err != nil {
			return fmt.Sprintf("Could not read last outcome: %v", err)
		}
		return notifier.FormatSnapshot(snap)
	default:
		return "Available commands:\n• /run - evaluate the strategy now\n• /last - show the last evaluation"
	}
}

func (s *Scheduler) persist(ev *model.Evaluation) {
	if err := s.Recorder.RecordEvaluation(ev); err != nil {
		s.Logger.Error().Err(err).Msg("record evaluation")
	}
	if s.OutcomeFile == "" {
		return
	}
	if err := ledger.SaveSnapshot(s.OutcomeFile, ledger.NewSnapshot(ev)); err != nil {
		s.Logger.Error().Err(err).Msg("save outcome file")
	}
}

func (s *Scheduler) trySend(msg notifier.Message) {
	if err := s.Notifier.Notify(s.Ctx, msg); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}
