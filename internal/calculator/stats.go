package calculator

import "GambleBench/internal/model"

// Summarize computes trajectory statistics for an outcome.
func Summarize(initial float64, out *model.Outcome) model.TrajectoryStats {
	var st model.TrajectoryStats
	if out == nil {
		return st
	}
	for _, r := range out.Rounds {
		switch r.Status {
		case model.RoundSettled:
			st.RoundsPlayed++
		case model.RoundSkipped:
			st.RoundsSkipped++
		case model.RoundFailed:
			st.RoundsFailed++
		}
	}
	st.WinRate = WinRate(out.History)
	st.LongestWinRun, st.LongestLossRun = LongestRuns(out.History)

	peak, dd, err := MaxDrawdown(BalanceCurve(initial, out.Rounds))
	if err == nil {
		st.PeakBalance = peak
		st.MaxDrawdown = dd
	}
	if initial != 0 {
		st.ReturnOnInitial = (out.Balance - initial) / initial
	}
	return st
}
