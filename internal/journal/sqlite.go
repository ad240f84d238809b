package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
)

// SQLiteJournal stores runs and trades in a single SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path and applies the
// schema.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordRun writes the run row and its trades in one transaction so a
// half-written run never appears in queries.
func (j *SQLiteJournal) RecordRun(result *backtest.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("cannot record nil result")
	}

	run := newRunRecord(result)
	trades := newTradeRecords(run.RunID, result.Trades)

	tx, err := j.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin journal transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, created_at, pair, mode, window,
			entry_threshold, exit_threshold, commission, initial_capital,
			final_equity, total_return, cagr, sharpe, max_drawdown,
			trade_count, signal_bars, warning_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt, run.Pair, run.Mode, run.Window,
		run.EntryThreshold, run.ExitThreshold, run.Commission, run.InitialCapital,
		run.FinalEquity, run.TotalReturn, run.CAGR, run.Sharpe, run.MaxDrawdown,
		run.TradeCount, run.SignalBars, run.WarningCount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades (
			run_id, seq, direction, entry_time, exit_time,
			entry_price_a, entry_price_b, exit_price_a, exit_price_b,
			entry_spread, exit_spread, hedge_ratio,
			entry_cost, exit_cost, pnl, exit_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare trade insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err = stmt.Exec(
			t.RunID, t.Seq, t.Direction, t.EntryTime, t.ExitTime,
			t.EntryPriceA, t.EntryPriceB, t.ExitPriceA, t.ExitPriceB,
			t.EntrySpread, t.ExitSpread, t.HedgeRatio,
			t.EntryCost, t.ExitCost, t.PnL, t.ExitReason,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert trade %d of run %s: %w", t.Seq, run.RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run %s: %w", run.RunID, err)
	}

	return run.RunID, nil
}

// GetRun returns a single run by id.
func (j *SQLiteJournal) GetRun(runID string) (*RunRecord, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created_at, pair, mode, window,
			entry_threshold, exit_threshold, commission, initial_capital,
			final_equity, total_return, cagr, sharpe, max_drawdown,
			trade_count, signal_bars, warning_count
		FROM runs WHERE run_id = ?`, runID)

	var run RunRecord
	err := scanRun(row, &run)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRuns returns runs for a pair, newest first. ULIDs sort by creation
// time, so ordering on the primary key is chronological.
func (j *SQLiteJournal) ListRuns(pair string) ([]RunRecord, error) {
	query := `
		SELECT run_id, created_at, pair, mode, window,
			entry_threshold, exit_threshold, commission, initial_capital,
			final_equity, total_return, cagr, sharpe, max_drawdown,
			trade_count, signal_bars, warning_count
		FROM runs`
	args := []interface{}{}
	if pair != "" {
		query += ` WHERE pair = ?`
		args = append(args, pair)
	}
	query += ` ORDER BY run_id DESC`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := scanRun(rows, &run); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// ListTrades returns the trades of a run in execution order.
func (j *SQLiteJournal) ListTrades(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, seq, direction, entry_time, exit_time,
			entry_price_a, entry_price_b, exit_price_a, exit_price_b,
			entry_spread, exit_spread, hedge_ratio,
			entry_cost, exit_cost, pnl, exit_reason
		FROM trades WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades for run %s: %w", runID, err)
	}
	defer rows.Close()

	var trades []TradeRecord
	for rows.Next() {
		var t TradeRecord
		err := rows.Scan(
			&t.RunID, &t.Seq, &t.Direction, &t.EntryTime, &t.ExitTime,
			&t.EntryPriceA, &t.EntryPriceB, &t.ExitPriceA, &t.ExitPriceB,
			&t.EntrySpread, &t.ExitSpread, &t.HedgeRatio,
			&t.EntryCost, &t.ExitCost, &t.PnL, &t.ExitReason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}
	return trades, nil
}

// Close releases the underlying database handle.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner, run *RunRecord) error {
	return row.Scan(
		&run.RunID, &run.CreatedAt, &run.Pair, &run.Mode, &run.Window,
		&run.EntryThreshold, &run.ExitThreshold, &run.Commission, &run.InitialCapital,
		&run.FinalEquity, &run.TotalReturn, &run.CAGR, &run.Sharpe, &run.MaxDrawdown,
		&run.TradeCount, &run.SignalBars, &run.WarningCount,
	)
}
