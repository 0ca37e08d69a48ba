package journal

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSVHeader is the fixed column header of the trade export.
var CSVHeader = []string{"ID", "DATE_TIME", "AMOUNT", "FEE", "NET", "CUMULATIVE", "NOTE"}

const bom = "\ufeff"

// CSVOptions controls the export encoding.
type CSVOptions struct {
	// BOM prefixes the output with a UTF-8 byte order mark so spreadsheet
	// tools detect the encoding of non-ASCII notes.
	BOM      bool
	Location *time.Location
}

// CSVJournal writes entries as CSV rows, header first.
type CSVJournal struct {
	w   *csv.Writer
	loc *time.Location
}

func NewCSV(w io.Writer, opts CSVOptions) (*CSVJournal, error) {
	if opts.BOM {
		if _, err := io.WriteString(w, bom); err != nil {
			return nil, err
		}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVJournal{w: cw, loc: loc}, nil
}

func (j *CSVJournal) RecordTrade(e Entry) error {
	return j.w.Write([]string{
		strconv.Itoa(e.ID),
		e.Time.In(j.loc).Format(TimeLayout),
		exact(e.Amount),
		exact(e.Fee),
		money(e.Net),
		money(e.Cumulative),
		e.Note,
	})
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	return j.w.Error()
}

// WriteCSV writes entries, already ordered for display, to w.
func WriteCSV(w io.Writer, entries []Entry, opts CSVOptions) error {
	j, err := NewCSV(w, opts)
	if err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, e := range entries {
		if err := j.RecordTrade(e); err != nil {
			return fmt.Errorf("csv trade %d: %w", e.ID, err)
		}
	}
	return j.Close()
}

// ExportCSV renders the ledger as CSV in the requested order.
func (l *Ledger) ExportCSV(order Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.WriteCSV(&buf, order, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV streams the ledger export to w.
func (l *Ledger) WriteCSV(w io.Writer, order Order, withBOM bool) error {
	return WriteCSV(w, l.List(order), CSVOptions{BOM: withBOM, Location: l.loc})
}

// ExportFilename is the download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "stock_trades_" + now.Format("20060102") + ".csv"
}

// ReadCSV reads a trade table in export format back into edit rows. Columns
// are matched by header name; NET and CUMULATIVE are ignored because they
// are derived. A header with no ID or AMOUNT column is rejected.
//
// Exports write AMOUNT and FEE unrounded, so a table read back and passed to
// Edit keeps the stored values. NET and CUMULATIVE are rounded to cents.
func ReadCSV(r io.Reader) ([]EditRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	if _, ok := col["ID"]; !ok {
		return nil, fmt.Errorf("read csv: no ID column")
	}
	if _, ok := col["AMOUNT"]; !ok {
		return nil, fmt.Errorf("read csv: no AMOUNT column")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []EditRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		// A missing or garbled id is left at 0 so Edit mints a new one.
		id, _ := strconv.Atoi(strings.TrimSpace(field(rec, "ID")))

		rows = append(rows, EditRow{
			ID:     id,
			Time:   field(rec, "DATE_TIME"),
			Amount: field(rec, "AMOUNT"),
			Fee:    field(rec, "FEE"),
			Note:   field(rec, "NOTE"),
		})
	}
	return rows, nil
}
