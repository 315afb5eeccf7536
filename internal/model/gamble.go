package model

import (
	"errors"
	"math"
)

// ErrInvalidGambleType is returned when a strategy hands back something that is not a Gamble.
var ErrInvalidGambleType = errors.New("invalid gamble type")

// Gamble is a single proposed bet.
type Gamble struct {
	AmountBet     float64
	WinPercentage float64
}

// Valid reports whether the gamble may be executed against the given balance.
// Invalid gambles are skipped, not rejected.
func (g Gamble) Valid(balance float64) bool {
	if !finite(g.AmountBet) || !finite(g.WinPercentage) {
		return false
	}
	if g.AmountBet < 0 || g.AmountBet > balance {
		return false
	}
	return g.WinPercentage > 0 && g.WinPercentage <= 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GambleOutcome is the house's answer to one gamble.
type GambleOutcome struct {
	AmountBet     float64 `json:"amount_bet"`
	WinPercentage float64 `json:"win_percentage"`
	Won           bool    `json:"won"`
	AmountWon     float64 `json:"amount_won"`
}
