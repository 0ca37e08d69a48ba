package session

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	cfg.Journal.Currency = "USD"
	cfg.Journal.Timezone = "UTC"
	cfg.Export.BOM = false

	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	l := journal.NewLedger(
		journal.WithLocation(time.UTC),
		journal.WithClock(func() time.Time {
			at = at.Add(time.Minute)
			return at
		}),
	)

	var out bytes.Buffer
	return New("01TESTSESSION", l, cfg, nil, &out), &out
}

func TestRunScript(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t)
	script := strings.Join([]string{
		"add 1200",
		"add -800 - stopped out",
		"add abc",
		"summary",
		"bogus",
		"quit",
		"add 1",
	}, "\n")

	require.NoError(t, s.Run(context.Background(), strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, "trade 1: net $1,187.00")
	assert.Contains(t, got, "trade 2: net -$813.00")
	assert.Contains(t, got, `error: amount "abc" is not a valid number`)
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Contains(t, got, "Total net:")
	assert.Equal(t, 2, s.Ledger.Len())

	trades := s.Ledger.Trades()
	assert.Equal(t, "stopped out", trades[1].Note)
	assert.Equal(t, "13", trades[1].Fee.String())
}

func TestAddWithFee(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	require.NoError(t, s.Exec(context.Background(), "add 100 2.5 scalp"))

	tr := s.Ledger.Trades()[0]
	assert.Equal(t, "2.5", tr.Fee.String())
	assert.Equal(t, "scalp", tr.Note)
}

func TestExecUsage(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	ctx := context.Background()

	assert.NoError(t, s.Exec(ctx, "   "))
	assert.ErrorContains(t, s.Exec(ctx, "add"), "usage")
	assert.ErrorContains(t, s.Exec(ctx, "edit"), "usage")
	assert.ErrorContains(t, s.Exec(ctx, "export csv"), "usage")
	assert.ErrorContains(t, s.Exec(ctx, "export pdf out.pdf"), "unknown export format")
	assert.ErrorIs(t, s.Exec(ctx, "QUIT"), ErrQuit)
}

func TestExportAndEditRoundTrip(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t)
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trades.csv")

	require.NoError(t, s.Exec(ctx, "add 1200"))
	require.NoError(t, s.Exec(ctx, "add -800"))
	require.NoError(t, s.Exec(ctx, "export csv "+csvPath))
	assert.Contains(t, out.String(), "wrote "+csvPath)

	require.NoError(t, s.Exec(ctx, "clear"))
	assert.Equal(t, 0, s.Ledger.Len())
	assert.Equal(t, 1, s.Ledger.NextID())

	require.NoError(t, s.Exec(ctx, "edit "+csvPath))
	require.Equal(t, 2, s.Ledger.Len())
	assert.Equal(t, 3, s.Ledger.NextID())
	assert.Equal(t, "374", s.Ledger.Summary().TotalNet.String())
	assert.NotContains(t, out.String(), "warning:")
}

func TestExportFormats(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	ctx := context.Background()
	dir := t.TempDir()

	chartPath := filepath.Join(dir, "balance.png")
	assert.Error(t, s.Exec(ctx, "export chart "+chartPath))

	require.NoError(t, s.Exec(ctx, "add 1200"))
	require.NoError(t, s.Exec(ctx, "add -800"))

	orgPath := filepath.Join(dir, "trades.org")
	require.NoError(t, s.Exec(ctx, "export org "+orgPath))
	org, err := os.ReadFile(orgPath)
	require.NoError(t, err)
	assert.Contains(t, string(org), "** Trade 2:")

	require.NoError(t, s.Exec(ctx, "export chart "+chartPath))
	png, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	dbPath := filepath.Join(dir, "trades.sqlite")
	require.NoError(t, s.Exec(ctx, "export sqlite "+dbPath))
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var session string
	require.NoError(t, db.QueryRow(`SELECT session FROM summary`).Scan(&session))
	assert.Equal(t, "01TESTSESSION", session)
}

func TestListOrder(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, "add 10 0 first"))
	require.NoError(t, s.Exec(ctx, "add 20 0 second"))

	out.Reset()
	require.NoError(t, s.Exec(ctx, "list desc"))
	got := out.String()
	assert.Less(t, strings.Index(got, "second"), strings.Index(got, "first"))
}

func TestFlip(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "flip 1,200"))
	require.NoError(t, s.Exec(ctx, "flip -13.5"))
	assert.Equal(t, "-1200\n13.5\n", out.String())
	assert.Equal(t, 0, s.Ledger.Len())

	assert.ErrorIs(t, s.Exec(ctx, "flip abc"), journal.ErrInvalidNumber)
	assert.ErrorContains(t, s.Exec(ctx, "flip"), "usage")
}
