// journal/journal.go
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFee is the commission charged when no fee is given.
	DefaultFee = 13

	// PlaceholderNote replaces an empty note.
	PlaceholderNote = "No notes"
)

// Trade is a single logged trade outcome.
type Trade struct {
	ID     int             `json:"id"`
	Time   time.Time       `json:"time"`
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
	Note   string          `json:"note"`
}

// Net is the amount minus the fee.
func (t Trade) Net() decimal.Decimal {
	return t.Amount.Sub(t.Fee)
}

// Entry is a trade together with its derived fields.
type Entry struct {
	Trade
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// Order selects how entries are listed.
type Order int

const (
	Chronological Order = iota
	ReverseChronological
)

func (o Order) String() string {
	if o == ReverseChronological {
		return "desc"
	}
	return "asc"
}

// ParseOrder maps "asc"/"desc" (and a few aliases) to an Order.
// Anything unrecognized is chronological.
func ParseOrder(s string) Order {
	switch s {
	case "desc", "reverse", "newest":
		return ReverseChronological
	}
	return Chronological
}

// EditRow is one row of an edited trade table, still in text form.
// ID 0 means the row has no identity yet.
type EditRow struct {
	ID     int    `json:"id"`
	Time   string `json:"time"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Note   string `json:"note"`
}

// RowWarning reports a field of an edited row that was replaced by a default.
type RowWarning struct {
	Row     int    `json:"row"`
	ID      int    `json:"id"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Default string `json:"default"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d (id %d): %s %q replaced by %s", w.Row, w.ID, w.Field, w.Value, w.Default)
}

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrEmptyNumber   = errors.New("empty number")
	ErrInvalidNumber = errors.New("invalid number")
)

// ValidationError is returned when a required field cannot be parsed.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q is not a valid number", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}
