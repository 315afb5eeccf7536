package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RoundStatus describes what happened to a round.
type RoundStatus string

const (
	RoundSettled RoundStatus = "SETTLED"
	RoundSkipped RoundStatus = "SKIPPED" // gamble failed validation
	RoundFailed  RoundStatus = "FAILED"  // house call failed, bet not refunded
)

// RoundResult is the log entry for a single round.
type RoundResult struct {
	Round        int
	Gamble       Gamble
	Status       RoundStatus
	Won          bool
	AmountWon    float64
	BalanceAfter float64
	Err          string
}

// Outcome is the terminal result of one trajectory.
type Outcome struct {
	Balance float64
	History History
	Rounds  []RoundResult
}

// String renders the outcome as (balance, [results...]).
func (o Outcome) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(strconv.FormatFloat(o.Balance, 'f', -1, 64))
	b.WriteString(", [")
	for i, r := range o.History.results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatBool(r))
	}
	b.WriteString("])")
	return b.String()
}

// Evaluation is an outcome plus the wall-clock verdict.
type Evaluation struct {
	ID           string
	StrategyFile string
	StrategyName string
	Author       string
	StartedAt    time.Time
	Outcome      *Outcome
	Elapsed      time.Duration
	Budget       time.Duration
	Passed       bool
	Stats        TrajectoryStats
	Err          error
}

// Verdict returns the human-readable pass/fail line.
func (e *Evaluation) Verdict() string {
	if e.Passed {
		return fmt.Sprintf("Test passed: Execution completed in %.2f seconds.", e.Elapsed.Seconds())
	}
	return fmt.Sprintf("Test failed: Execution time (%.2f seconds) exceeded the %g-minute limit.",
		e.Elapsed.Seconds(), e.Budget.Minutes())
}

// TrajectoryStats holds derived statistics for a finished trajectory.
type TrajectoryStats struct {
	RoundsPlayed    int
	RoundsSkipped   int
	RoundsFailed    int
	WinRate         float64
	LongestWinRun   int
	LongestLossRun  int
	PeakBalance     float64
	MaxDrawdown     float64 // fraction of the running peak, 0.0 ~ 1.0
	ReturnOnInitial float64 // fraction, e.g. 1.0 means doubled
}
