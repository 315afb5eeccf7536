package notifier

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"GambleBench/internal/ledger"
	"GambleBench/internal/model"
	"GambleBench/internal/strategy"
)

// FormatSummary formats the plain-text result printed at the end of a run:
// the (balance, history) outcome followed by the pass/fail line.
func FormatSummary(ev *model.Evaluation) string {
	var b strings.Builder
	if ev.Outcome != nil {
		b.WriteString(ev.Outcome.String())
		b.WriteString("\n\n")
	}
	b.WriteString(ev.Verdict())
	return b.String()
}

// FormatError formats a top-level failure. A rejected strategy file gets its own prefix.
func FormatError(err error) string {
	if strategy.IsViolation(err) {
		return fmt.Sprintf("Error in strategy file: %v", err)
	}
	return fmt.Sprintf("Error occurred during test execution: %v", err)
}

// FormatReport formats an evaluation as an HTML Telegram message.
func FormatReport(ev *model.Evaluation) string {
	var b strings.Builder

	name := filepath.Base(ev.StrategyFile)
	if ev.StrategyName != "" {
		name = ev.StrategyName
	}
	b.WriteString(fmt.Sprintf("🎲 <b>GambleBench</b> | %s\n", html.EscapeString(name)))
	if ev.Author != "" {
		b.WriteString(fmt.Sprintf("Author: %s\n", html.EscapeString(ev.Author)))
	}
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n\n", ev.ID))

	if ev.Err != nil {
		b.WriteString(fmt.Sprintf("❌ <b>Aborted</b>: %s\n", html.EscapeString(ev.Err.Error())))
		return b.String()
	}

	st := ev.Stats
	b.WriteString(fmt.Sprintf("Final balance: %.2f (%+.1f%%)\n", ev.Outcome.Balance, st.ReturnOnInitial*100))
	b.WriteString(fmt.Sprintf("Rounds: %d settled | %d skipped | %d failed\n", st.RoundsPlayed, st.RoundsSkipped, st.RoundsFailed))
	b.WriteString(fmt.Sprintf("Win rate: %.1f%% | streaks W%d / L%d\n", st.WinRate*100, st.LongestWinRun, st.LongestLossRun))
	b.WriteString(fmt.Sprintf("Peak: %.2f | max drawdown %.1f%%\n\n", st.PeakBalance, st.MaxDrawdown*100))

	if ev.Passed {
		b.WriteString(fmt.Sprintf("✅ Passed in %.2fs (budget %.0fs)", ev.Elapsed.Seconds(), ev.Budget.Seconds()))
	} else {
		b.WriteString(fmt.Sprintf("⏱ Failed: %.2fs exceeded budget %.0fs", ev.Elapsed.Seconds(), ev.Budget.Seconds()))
	}
	return b.String()
}

// FormatSnapshot formats the stored last outcome.
func FormatSnapshot(s *ledger.Snapshot) string {
	if s == nil {
		return "No evaluation recorded yet."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Last evaluation</b>\n\n")
	b.WriteString(fmt.Sprintf("Strategy: %s\n", html.EscapeString(filepath.Base(s.StrategyFile))))
	if s.Error != "" {
		b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(s.Error)))
	} else {
		wins := 0
		for _, w := range s.History {
			if w {
				wins++
			}
		}
		b.WriteString(fmt.Sprintf("Balance: %.2f\n", s.Balance))
		b.WriteString(fmt.Sprintf("Settled: %d (wins %d)\n", len(s.History), wins))
		b.WriteString(fmt.Sprintf("Passed: %v (%.2fs)\n", s.Passed, s.ElapsedSec))
	}
	b.WriteString(fmt.Sprintf("Updated: %s\n", s.UpdatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// ReportMessage wraps FormatReport. Passing evaluations are delivered silently.
func ReportMessage(ev *model.Evaluation) Message {
	return Message{Text: FormatReport(ev), HTML: true, Silent: ev.Passed && ev.Err == nil}
}

// ErrorMessage wraps FormatError as plain text.
func ErrorMessage(err error) Message {
	return Message{Text: "❌ " + FormatError(err)}
}
