package calculator

import "GambleBench/internal/model"

// WinRate returns the fraction of settled rounds that were won, or 0 with no rounds.
func WinRate(h model.History) float64 {
	if h.Len() == 0 {
		return 0
	}
	return float64(h.Wins()) / float64(h.Len())
}

// LongestRuns returns the longest consecutive win and loss runs.
func LongestRuns(h model.History) (wins, losses int) {
	var curWin, curLoss int
	for i := 0; i < h.Len(); i++ {
		if h.At(i) {
			curWin++
			curLoss = 0
		} else {
			curLoss++
			curWin = 0
		}
		if curWin > wins {
			wins = curWin
		}
		if curLoss > losses {
			losses = curLoss
		}
	}
	return wins, losses
}
