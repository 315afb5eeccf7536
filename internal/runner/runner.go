package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"GambleBench/internal/calculator"
	"GambleBench/internal/house"
	"GambleBench/internal/ledger"
	"GambleBench/internal/metrics"
	"GambleBench/internal/model"
	"GambleBench/internal/progress"
)

// Runner plays one strategy against the house for a fixed number of rounds.
type Runner struct {
	cfg        Config
	house      house.House
	logger     zerolog.Logger
	newTracker func(total int) progress.Tracker
	now        func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithProgress sets the progress tracker factory. The default discards progress.
func WithProgress(fn func(total int) progress.Tracker) Option {
	return func(r *Runner) { r.newTracker = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner.
func New(cfg Config, h house.House, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:        cfg,
		house:      h,
		logger:     logger,
		newTracker: func(int) progress.Tracker { return progress.Noop{} },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's parameters.
func (r *Runner) Config() Config { return r.cfg }

// Run executes one trajectory. Invalid gambles skip the round; a failed house call
// leaves the bet debited and the round unsettled; an error from the strategy aborts.
func (r *Runner) Run(ctx context.Context, s model.Strategy) (*model.Outcome, error) {
	led := ledger.New(r.cfg.InitialBalance, r.cfg.NumRounds)
	tracker := r.newTracker(r.cfg.NumRounds)
	defer tracker.Finish()
	start := r.now()

	for round := 1; round <= r.cfg.NumRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("trajectory interrupted at round %d: %w", round, err)
		}

		balance := led.Balance()
		if balance <= 0 {
			r.logger.Info().Int("round", round).Float64("balance", balance).Msg("balance exhausted, stopping early")
			break
		}

		g, err := s.Play(balance, r.cfg.NumRounds-round, led.History())
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		if !g.Valid(balance) {
			r.logger.Debug().Int("round", round).Float64("amount_bet", g.AmountBet).
				Float64("win_percentage", g.WinPercentage).Msg("invalid gamble, round skipped")
			led.Log(model.RoundResult{Round: round, Gamble: g, Status: model.RoundSkipped, BalanceAfter: balance})
			metrics.RoundsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		led.Debit(g.AmountBet)
		res := model.RoundResult{Round: round, Gamble: g}

		out, err := r.house.Gamble(ctx, g)
		if err != nil {
			r.logger.Error().Err(err).Int("round", round).Msg("request error, round not settled")
			res.Status = model.RoundFailed
			res.Err = err.Error()
			metrics.RoundsTotal.WithLabelValues("failed").Inc()
		} else {
			led.Settle(out.Won, out.AmountWon)
			res.Status = model.RoundSettled
			res.Won = out.Won
			res.AmountWon = out.AmountWon
			metrics.RoundsTotal.WithLabelValues("settled").Inc()
		}
		res.BalanceAfter = led.Balance()
		led.Log(res)

		tracker.Advance(r.now().Sub(start))
	}

	return led.Outcome(), nil
}

// Evaluate runs a trajectory and compares its wall-clock time against the budget.
// The returned Evaluation is non-nil even when the trajectory fails.
func (r *Runner) Evaluate(ctx context.Context, s model.Strategy) (*model.Evaluation, error) {
	ev := &model.Evaluation{
		ID:        uuid.NewString(),
		StartedAt: r.now(),
		Budget:    r.cfg.TimeBudget,
	}
	if d, ok := s.(model.Describer); ok {
		ev.StrategyName = d.Name()
		ev.Author = d.Author()
	}

	out, err := r.Run(ctx, s)
	ev.Elapsed = r.now().Sub(ev.StartedAt)
	if err != nil {
		ev.Err = err
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return ev, err
	}

	ev.Outcome = out
	ev.Passed = ev.Elapsed <= r.cfg.TimeBudget
	ev.Stats = calculator.Summarize(r.cfg.InitialBalance, out)

	verdict := "failed"
	if ev.Passed {
		verdict = "passed"
	}
	metrics.EvaluationsTotal.WithLabelValues(verdict).Inc()
	metrics.LastBalance.Set(out.Balance)

	r.logger.Info().Str("id", ev.ID).Float64("balance", out.Balance).Int("settled", out.History.Len()).
		Dur("elapsed", ev.Elapsed).Bool("passed", ev.Passed).Msg("trajectory finished")
	return ev, nil
}
