package calculator

import (
	"errors"

	"GambleBench/internal/model"
)

// BalanceCurve returns the balance after each logged round, starting with the initial balance.
func BalanceCurve(initial float64, rounds []model.RoundResult) []float64 {
	curve := make([]float64, 0, len(rounds)+1)
	curve = append(curve, initial)
	for _, r := range rounds {
		curve = append(curve, r.BalanceAfter)
	}
	return curve
}

// MaxDrawdown returns the peak balance and the largest fall from a running peak as a fraction of that peak.
func MaxDrawdown(curve []float64) (peak, drawdown float64, err error) {
	if len(curve) == 0 {
		return 0, 0, errors.New("empty balance curve")
	}
	peak = curve[0]
	for _, b := range curve {
		if b > peak {
			peak = b
		}
		if peak > 0 {
			if dd := (peak - b) / peak; dd > drawdown {
				drawdown = dd
			}
		}
	}
	return peak, drawdown, nil
}
