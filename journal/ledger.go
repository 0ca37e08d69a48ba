package journal

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the date format used by exports and accepted by edits.
const TimeLayout = "02/01/2006 15:04:05"

var editTimeLayouts = []string{
	TimeLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Ledger is the ordered list of trades for one session. It is not safe for
// concurrent use; callers that share a Ledger must serialize access.
type Ledger struct {
	trades []Trade
	nextID int

	defaultFee decimal.Decimal
	note       string
	loc        *time.Location
	now        func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithDefaultFee sets the fee used when none can be parsed.
func WithDefaultFee(fee decimal.Decimal) Option {
	return func(l *Ledger) { l.defaultFee = fee }
}

// WithPlaceholderNote sets the note stored for blank notes.
func WithPlaceholderNote(note string) Option {
	return func(l *Ledger) {
		if strings.TrimSpace(note) != "" {
			l.note = note
		}
	}
}

// WithLocation sets the zone used to parse and format trade times.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger returns an empty ledger whose first trade gets id 1.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		nextID:     1,
		defaultFee: decimal.NewFromInt(DefaultFee),
		note:       PlaceholderNote,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// NextID is the id the next added trade will get.
func (l *Ledger) NextID() int { return l.nextID }

// Len is the number of trades.
func (l *Ledger) Len() int { return len(l.trades) }

// Location is the zone trade times are displayed in.
func (l *Ledger) Location() *time.Location { return l.loc }

// DefaultFee is the fee substituted for blank or bad fee input.
func (l *Ledger) DefaultFee() decimal.Decimal { return l.defaultFee }

// Add appends a trade stamped with the current time.
func (l *Ledger) Add(amount, fee, note string) (Trade, error) {
	return l.AddAt(amount, fee, note, l.now())
}

// AddAt appends a trade stamped with at. The amount is required; a bad fee
// falls back to the default and a blank note to the placeholder.
func (l *Ledger) AddAt(amount, fee, note string, at time.Time) (Trade, error) {
	a, err := ParseNumber(amount)
	if err != nil {
		return Trade{}, &ValidationError{Field: "amount", Value: amount, Err: err}
	}

	f, err := ParseNumber(fee)
	if err != nil {
		f = l.defaultFee
	}

	t := Trade{
		ID:     l.nextID,
		Time:   at,
		Amount: a,
		Fee:    f,
		Note:   l.noteOr(note),
	}
	l.trades = append(l.trades, t)
	l.nextID++
	return t, nil
}

// AddText appends a trade whose time is given as text. A blank time means
// now. An unparseable time falls back to now and a non-blank bad fee to the
// default, the same as in Edit; both substitutions are reported. Only a bad
// amount is an error.
func (l *Ledger) AddText(amount, fee, note, when string) (Trade, []RowWarning, error) {
	at, timeOK := l.ParseTime(when)
	if !timeOK {
		at = l.now()
	}
	_, feeErr := ParseNumber(fee)

	t, err := l.AddAt(amount, fee, note, at)
	if err != nil {
		return Trade{}, nil, err
	}

	var warnings []RowWarning
	if !timeOK && strings.TrimSpace(when) != "" {
		warnings = append(warnings, RowWarning{Row: 1, ID: t.ID, Field: "time", Value: when, Default: "now"})
	}
	if feeErr != nil && strings.TrimSpace(fee) != "" {
		warnings = append(warnings, RowWarning{Row: 1, ID: t.ID, Field: "fee", Value: fee, Default: l.defaultFee.String()})
	}
	return t, warnings, nil
}

// Edit replaces the whole ledger with rows, given in order. Rows keep a
// positive id unless an earlier row already claimed it; the rest get fresh
// ids above the largest kept one. Fields that cannot be parsed are replaced
// by defaults and reported; a bad row never aborts the batch.
func (l *Ledger) Edit(order Order, rows []EditRow) []RowWarning {
	if order == ReverseChronological {
		rows = slices.Clone(rows)
		slices.Reverse(rows)
	}

	claimed := make(map[int]bool, len(rows))
	keep := make([]bool, len(rows))
	maxID := 0
	for i, r := range rows {
		if r.ID > 0 && !claimed[r.ID] {
			claimed[r.ID] = true
			keep[i] = true
			maxID = max(maxID, r.ID)
		}
	}

	var warnings []RowWarning
	now := l.now()
	trades := make([]Trade, 0, len(rows))
	for i, r := range rows {
		id := r.ID
		if !keep[i] {
			maxID++
			id = maxID
		}
		warn := func(field, value, def string) {
			warnings = append(warnings, RowWarning{Row: i + 1, ID: id, Field: field, Value: value, Default: def})
		}

		t := Trade{ID: id, Note: l.noteOr(r.Note)}

		at, ok := l.ParseTime(r.Time)
		if !ok {
			at = now
			warn("time", r.Time, "now")
		}
		t.Time = at

		if a, err := ParseNumber(r.Amount); err == nil {
			t.Amount = a
		} else {
			t.Amount = decimal.Zero
			warn("amount", r.Amount, "0")
		}

		if f, err := ParseNumber(r.Fee); err == nil {
			t.Fee = f
		} else {
			t.Fee = l.defaultFee
			warn("fee", r.Fee, l.defaultFee.String())
		}

		trades = append(trades, t)
	}

	l.trades = trades
	l.nextID = maxID + 1
	return warnings
}

// Clear removes every trade and restarts ids at 1.
func (l *Ledger) Clear() {
	l.trades = nil
	l.nextID = 1
}

// Trades returns a copy of the stored trades in chronological order.
func (l *Ledger) Trades() []Trade {
	return slices.Clone(l.trades)
}

// List returns every trade with its net and cumulative values. Cumulative is
// always accumulated in stored order; order only affects the output order.
func (l *Ledger) List(order Order) []Entry {
	entries := make([]Entry, len(l.trades))
	total := decimal.Zero
	for i, t := range l.trades {
		net := t.Net()
		total = total.Add(net)
		entries[i] = Entry{Trade: t, Net: net, Cumulative: total}
	}
	if order == ReverseChronological {
		slices.Reverse(entries)
	}
	return entries
}

// Summary recomputes the performance statistics from scratch.
func (l *Ledger) Summary() Summary {
	return Summarize(l.List(Chronological))
}

func (l *Ledger) noteOr(note string) string {
	if strings.TrimSpace(note) == "" {
		return l.note
	}
	return note
}

// ParseTime parses s in the ledger location using any of the accepted
// layouts.
func (l *Ledger) ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range editTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, l.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
