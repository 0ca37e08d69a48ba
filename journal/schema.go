package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY,
	seq INTEGER NOT NULL,
	time DATETIME NOT NULL,
	amount TEXT NOT NULL,
	fee TEXT NOT NULL,
	net TEXT NOT NULL,
	cumulative TEXT NOT NULL,
	note TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary (
	session TEXT NOT NULL,
	created DATETIME NOT NULL,
	trade_count INTEGER NOT NULL,
	total_net TEXT NOT NULL,
	total_fees TEXT NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	wins_amount TEXT NOT NULL,
	losses_amount TEXT NOT NULL,
	best TEXT NOT NULL,
	worst TEXT NOT NULL,
	win_rate REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_trades_seq ON trades(seq);
`
