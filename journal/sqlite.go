package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite writes a snapshot of a ledger into a SQLite file for offline
// analysis. Snapshots are exports; nothing reads them back into a session.
type SQLite struct {
	db  *sql.DB
	ex  execer
	seq int
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLite opens the snapshot at path, creating the schema if needed.
// Recorded trades continue after the largest seq already stored.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	j := &SQLite{db: db, ex: db}
	if err := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM trades`).Scan(&j.seq); err != nil {
		db.Close()
		return nil, fmt.Errorf("read seq: %w", err)
	}
	return j, nil
}

// RecordTrade inserts e after every previously recorded trade.
func (j *SQLite) RecordTrade(e Entry) error {
	return j.RecordTradeContext(context.Background(), e)
}

// RecordTradeContext is RecordTrade with a context.
func (j *SQLite) RecordTradeContext(ctx context.Context, e Entry) error {
	seq := j.seq + 1
	_, err := j.ex.ExecContext(ctx, `
		INSERT INTO trades
		(id, seq, time, amount, fee, net, cumulative, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, seq, e.Time.UTC(), e.Amount, e.Fee, e.Net, e.Cumulative, e.Note,
	)
	if err != nil {
		return err
	}
	j.seq = seq
	return nil
}

func (j *SQLite) RecordSummary(session string, created time.Time, s Summary) error {
	_, err := j.db.Exec(`
		INSERT INTO summary
		(session, created, trade_count, total_net, total_fees, wins, losses, wins_amount, losses_amount, best, worst, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session, created.UTC(), s.TradeCount, s.TotalNet, s.TotalFees, s.Wins, s.Losses,
		s.WinsAmount, s.LossesAmount, s.Best, s.Worst, s.WinRate,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// ExportSQLite replaces the trades in the snapshot at path with the current
// ledger and appends a summary row tagged with session.
func (l *Ledger) ExportSQLite(ctx context.Context, path, session string) error {
	j, err := NewSQLite(path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer j.Close()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("reset trades: %w", err)
	}
	snap := &SQLite{db: j.db, ex: tx}
	for _, e := range l.List(Chronological) {
		if err := snap.RecordTradeContext(ctx, e); err != nil {
			return fmt.Errorf("insert trade %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if err := j.RecordSummary(session, l.now(), l.Summary()); err != nil {
		return fmt.Errorf("record summary: %w", err)
	}
	return nil
}
