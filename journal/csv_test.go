package journal

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportCSVHeader(t *testing.T) {
	t.Parallel()

	data, err := newTestLedger(t).ExportCSV(Chronological)
	require.NoError(t, err)

	records := readCSV(t, data)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"ID", "DATE_TIME", "AMOUNT", "FEE", "NET", "CUMULATIVE", "NOTE"}, records[0])
}

func TestExportCSVRows(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	_, err := l.AddAt("1200", "13", "A", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	_, err = l.AddAt("\u2212800", "13", "B, with comma", time.Date(2024, 1, 3, 14, 5, 6, 0, time.UTC))
	require.NoError(t, err)

	data, err := l.ExportCSV(Chronological)
	require.NoError(t, err)

	records := readCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "02/01/2024 03:04:05", "1200.00", "13.00", "1187.00", "1187.00", "A"}, records[1])
	assert.Equal(t, []string{"2", "03/01/2024 14:05:06", "-800.00", "13.00", "-813.00", "374.00", "B, with comma"}, records[2])
}

func TestExportCSVReverseKeepsCumulative(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	for _, a := range []string{"100", "200", "-50"} {
		_, err := l.Add(a, "0", "")
		require.NoError(t, err)
	}

	data, err := l.ExportCSV(ReverseChronological)
	require.NoError(t, err)

	records := readCSV(t, data)
	require.Len(t, records, 4)
	assert.Equal(t, "3", records[1][0])
	assert.Equal(t, "250.00", records[1][5])
	assert.Equal(t, "2", records[2][0])
	assert.Equal(t, "300.00", records[2][5])
	assert.Equal(t, "1", records[3][0])
	assert.Equal(t, "100.00", records[3][5])
}

func TestWriteCSVWithBOM(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	_, err := l.Add("10", "1", "הערה")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.WriteCSV(&buf, Chronological, true))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, buf.String(), "הערה")
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stock_trades_20240315.csv", ExportFilename(baseTime))
}

func TestReadCSVRoundTripThroughEdit(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	for _, a := range []string{"1200", "-800", "55.25"} {
		_, err := l.Add(a, "13", "")
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, l.WriteCSV(&buf, ReverseChronological, true))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].ID)
	assert.Equal(t, "55.25", rows[0].Amount)

	other := newTestLedger(t)
	assert.Empty(t, other.Edit(ReverseChronological, rows))
	want, got := l.Summary(), other.Summary()
	assert.Equal(t, want.TradeCount, got.TradeCount)
	assert.Equal(t, want.Wins, got.Wins)
	assert.Equal(t, want.Losses, got.Losses)
	assertDec(t, want.TotalNet.String(), got.TotalNet)
	assertDec(t, want.TotalFees.String(), got.TotalFees)
	assert.Equal(t, 4, other.NextID())
}

func TestExportCSVKeepsSubCentAmounts(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	_, err := l.Add("1.005", "0.125", "")
	require.NoError(t, err)
	_, err = l.Add("2.5000", "13", "")
	require.NoError(t, err)

	data, err := l.ExportCSV(Chronological)
	require.NoError(t, err)
	records := readCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1.005", "0.125", "0.88", "0.88"}, records[1][2:6])
	assert.Equal(t, []string{"2.50", "13.00", "-10.50", "-9.62"}, records[2][2:6])

	rows, err := ReadCSV(bytes.NewReader(data))
	require.NoError(t, err)

	other := newTestLedger(t)
	assert.Empty(t, other.Edit(Chronological, rows))
	got := other.Trades()
	require.Len(t, got, 2)
	assertDec(t, "1.005", got[0].Amount)
	assertDec(t, "0.125", got[0].Fee)
	assertDec(t, l.Summary().TotalNet.String(), other.Summary().TotalNet)
}

func TestReadCSVColumnsByName(t *testing.T) {
	t.Parallel()

	in := "note, amount, id\nhello,\"1,500\",7\nmissing id,20,\n"
	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, EditRow{ID: 7, Amount: "1,500", Note: "hello"}, rows[0])
	assert.Equal(t, 0, rows[1].ID)
	assert.Equal(t, "", rows[1].Fee)
}

func TestReadCSVRejectsBadHeader(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("DATE_TIME,AMOUNT\n"))
	assert.ErrorContains(t, err, "no ID column")

	_, err = ReadCSV(strings.NewReader("ID,NOTE\n"))
	assert.ErrorContains(t, err, "no AMOUNT column")
}
