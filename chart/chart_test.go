package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/journal"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderBalance(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	l := journal.NewLedger(
		journal.WithLocation(time.UTC),
		journal.WithClock(func() time.Time { return start }),
	)
	for _, amt := range []string{"1200", "-800", "350"} {
		_, err := l.Add(amt, "", "")
		require.NoError(t, err)
	}

	png, err := RenderBalance(l.List(journal.Chronological))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestRenderBalanceSingleTrade(t *testing.T) {
	t.Parallel()

	entries := []journal.Entry{{
		Trade:      journal.Trade{ID: 1, Amount: decimal.NewFromInt(-5), Fee: decimal.NewFromInt(13)},
		Net:        decimal.NewFromInt(-18),
		Cumulative: decimal.NewFromInt(-18),
	}}

	png, err := RenderBalance(entries)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestRenderBalanceEmpty(t *testing.T) {
	t.Parallel()

	_, err := RenderBalance(nil)
	assert.ErrorIs(t, err, ErrNoTrades)
}
