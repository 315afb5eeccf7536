package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"GambleBench/internal/model"
)

// SQLiteRecorder persists evaluations and their rounds to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id               TEXT PRIMARY KEY,
			started_at       INTEGER NOT NULL,
			strategy_file    TEXT,
			strategy_name    TEXT,
			author           TEXT,
			final_balance    REAL,
			rounds_settled   INTEGER,
			rounds_skipped   INTEGER,
			rounds_failed    INTEGER,
			win_rate         REAL,
			longest_win_run  INTEGER,
			longest_loss_run INTEGER,
			peak_balance     REAL,
			max_drawdown     REAL,
			return_initial   REAL,
			elapsed_ms       INTEGER,
			budget_ms        INTEGER,
			passed           INTEGER,
			error            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_started ON evaluations(started_at)`,

		`CREATE TABLE IF NOT EXISTS rounds (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			evaluation_id  TEXT NOT NULL REFERENCES evaluations(id),
			round          INTEGER NOT NULL,
			amount_bet     REAL,
			win_percentage REAL,
			status         TEXT,
			won            INTEGER,
			amount_won     REAL,
			balance_after  REAL,
			error          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_eval ON rounds(evaluation_id, round)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordEvaluation stores an evaluation and its round log in one transaction.
func (r *SQLiteRecorder) RecordEvaluation(ev *model.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var balance sql.NullFloat64
	var errText sql.NullString
	if ev.Outcome != nil {
		balance = sql.NullFloat64{Float64: ev.Outcome.Balance, Valid: true}
	}
	if ev.Err != nil {
		errText = sql.NullString{String: ev.Err.Error(), Valid: true}
	}
	st := ev.Stats

	_, err = tx.Exec(`INSERT INTO evaluations
		(id, started_at, strategy_file, strategy_name, author, final_balance,
		 rounds_settled, rounds_skipped, rounds_failed, win_rate, longest_win_run, longest_loss_run,
		 peak_balance, max_drawdown, return_initial, elapsed_ms, budget_ms, passed, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ev.ID, ev.StartedAt.Unix(), ev.StrategyFile, ev.StrategyName, ev.Author, balance,
		st.RoundsPlayed, st.RoundsSkipped, st.RoundsFailed, st.WinRate, st.LongestWinRun, st.LongestLossRun,
		st.PeakBalance, st.MaxDrawdown, st.ReturnOnInitial,
		ev.Elapsed.Milliseconds(), ev.Budget.Milliseconds(), ev.Passed, errText,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	if ev.Outcome != nil {
		stmt, err := tx.Prepare(`INSERT INTO rounds
			(evaluation_id, round, amount_bet, win_percentage, status, won, amount_won, balance_after, error)
			VALUES (?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare round insert: %w", err)
		}
		defer stmt.Close()
		for _, rd := range ev.Outcome.Rounds {
			if _, err := stmt.Exec(ev.ID, rd.Round, rd.Gamble.AmountBet, rd.Gamble.WinPercentage,
				string(rd.Status), rd.Won, rd.AmountWon, rd.BalanceAfter, rd.Err); err != nil {
				return fmt.Errorf("insert round %d: %w", rd.Round, err)
			}
		}
	}

	return tx.Commit()
}

// CountEvaluations returns the number of stored evaluations.
func (r *SQLiteRecorder) CountEvaluations() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM evaluations`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
