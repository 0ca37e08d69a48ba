package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/journal"
)

func testLedger(t *testing.T) *journal.Ledger {
	t.Helper()

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	l := journal.NewLedger(
		journal.WithLocation(time.UTC),
		journal.WithClock(func() time.Time {
			at = at.Add(time.Minute)
			return at
		}),
	)
	_, err := l.Add("1200", "", "breakout | long")
	require.NoError(t, err)
	_, err = l.Add("-800", "", "")
	require.NoError(t, err)
	return l
}

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"usd positive", "1187", "USD", "$1,187.00"},
		{"usd negative", "-813", "USD", "-$813.00"},
		{"usd rounds", "0.125", "USD", "$0.13"},
		{"unknown currency", "12.5", "XXQ", "12.50 XXQ"},
		{"no currency", "12.5", "", "12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestMoneyShekel(t *testing.T) {
	t.Parallel()

	got := Money(decimal.NewFromInt(1187), "ILS")
	assert.Contains(t, got, "₪")
	assert.Contains(t, got, "1,187.00")
}

func TestTableMarkdown(t *testing.T) {
	t.Parallel()

	l := testLedger(t)
	md := TableMarkdown(l.List(journal.Chronological), "USD", time.UTC)

	assert.Contains(t, md, "| ID | Date/Time |")
	assert.Contains(t, md, "| 1 | 15/03/2024 10:31:00 | $1,200.00 | $13.00 | $1,187.00 | $1,187.00 | breakout \\| long |")
	assert.Contains(t, md, "| 2 | 15/03/2024 10:32:00 | -$800.00 | $13.00 | -$813.00 | $374.00 | No notes |")
}

func TestTableMarkdownEmpty(t *testing.T) {
	t.Parallel()

	md := TableMarkdown(nil, "USD", nil)
	assert.Contains(t, md, "_no trades_")
}

func TestSummaryMarkdown(t *testing.T) {
	t.Parallel()

	md := SummaryMarkdown(testLedger(t).Summary(), "USD")
	assert.Contains(t, md, "**Total net:** $374.00")
	assert.Contains(t, md, "**Trades:** 2")
	assert.Contains(t, md, "**Win rate:** 50.0%")
	assert.Contains(t, md, "**Final balance:** $374.00")
}

func TestRender(t *testing.T) {
	t.Parallel()

	l := testLedger(t)
	doc := Document("", l.List(journal.Chronological), l.Summary(), "USD", time.UTC)
	assert.Contains(t, doc, "# Trade journal")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, StylePlain))
	assert.Contains(t, buf.String(), "Trade journal")
	assert.Contains(t, buf.String(), "Summary")
}

func TestRenderStyles(t *testing.T) {
	t.Parallel()

	for _, style := range Styles {
		style := style
		t.Run(style, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, "# Trade journal\n", style))
			assert.Contains(t, buf.String(), "Trade journal")
		})
	}

	var buf bytes.Buffer
	err := Render(&buf, "# x\n", "dracula")
	assert.ErrorIs(t, err, ErrUnknownStyle)
	assert.ErrorContains(t, err, "notty|dark|light")
	assert.Zero(t, buf.Len())
}
