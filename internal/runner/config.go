package runner

import (
	"fmt"
	"time"
)

const (
	DefaultInitialBalance = 1000.0
	DefaultNumRounds      = 100
	DefaultTimeBudget     = 5 * time.Minute
)

// Config holds the fixed parameters of a trajectory.
type Config struct {
	InitialBalance float64
	NumRounds      int
	TimeBudget     time.Duration
}

// DefaultConfig returns the standard evaluation parameters.
func DefaultConfig() Config {
	return Config{
		InitialBalance: DefaultInitialBalance,
		NumRounds:      DefaultNumRounds,
		TimeBudget:     DefaultTimeBudget,
	}
}

// Validate checks that the parameters describe a runnable trajectory.
func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive")
	}
	if c.NumRounds <= 0 {
		return fmt.Errorf("number of rounds must be positive")
	}
	if c.TimeBudget <= 0 {
		return fmt.Errorf("time budget must be positive")
	}
	return nil
}
