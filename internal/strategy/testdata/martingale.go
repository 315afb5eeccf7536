package martingale

import (
	"math"

	"gamblebench/types"
)

// Strategy doubles the stake after every loss and resets after a win.
type Strategy struct {
	Name   string
	Author string

	base  float64
	stake float64
}

func NewStrategy() *Strategy {
	return &Strategy{Name: "martingale", Author: "gamblebench", base: 5, stake: 5}
}

func (s *Strategy) Play(balance float64, roundsLeft int, history types.History) types.Gamble {
	if history.Len() > 0 {
		if won, _ := history.Last(); won {
			s.stake = s.base
		} else {
			s.stake *= 2
		}
	}
	return types.Gamble{AmountBet: math.Min(s.stake, balance), WinPercentage: 50}
}
