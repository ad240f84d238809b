package journal

// Schema creates the journal tables on first open. Statements are idempotent
// so reopening an existing journal file is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	pair TEXT NOT NULL,
	mode TEXT NOT NULL,
	window INTEGER NOT NULL,
	entry_threshold REAL NOT NULL,
	exit_threshold REAL NOT NULL,
	commission REAL NOT NULL,
	initial_capital REAL NOT NULL,
	final_equity REAL NOT NULL,
	total_return REAL NOT NULL,
	cagr REAL NOT NULL,
	sharpe REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	trade_count INTEGER NOT NULL,
	signal_bars INTEGER NOT NULL,
	warning_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	direction TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	entry_price_a REAL NOT NULL,
	entry_price_b REAL NOT NULL,
	exit_price_a REAL NOT NULL,
	exit_price_b REAL NOT NULL,
	entry_spread REAL NOT NULL,
	exit_spread REAL NOT NULL,
	hedge_ratio REAL NOT NULL,
	entry_cost REAL NOT NULL,
	exit_cost REAL NOT NULL,
	pnl REAL NOT NULL,
	exit_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, seq),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_pair ON runs(pair);
CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
`
