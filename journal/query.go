package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectTrades = `
	SELECT id, time, amount, fee, net, cumulative, note
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.Time,
		&e.Amount,
		&e.Fee,
		&e.Net,
		&e.Cumulative,
		&e.Note,
	)
	return e, err
}

// GetTrade returns a single snapshot entry by id.
func (j *SQLite) GetTrade(id int) (Entry, error) {
	row := j.db.QueryRow(selectTrades+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("trade %d not found", id)
		}
		return Entry{}, err
	}
	return e, nil
}

// ListTrades returns every snapshot entry in ledger order.
func (j *SQLite) ListTrades() ([]Entry, error) {
	return j.list(selectTrades + ` ORDER BY seq ASC`)
}

// ListTradesBetween returns entries whose time is within [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]Entry, error) {
	return j.list(selectTrades+` WHERE time >= ? AND time < ? ORDER BY seq ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) list(query string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
