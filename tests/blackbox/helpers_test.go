//go:build blackbox

package blackbox

import (
	"io"
	"os"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func stringReader(s string) io.Reader { return strings.NewReader(s) }

func writeTradesCSV(t *testing.T, path string, rows ...string) {
	t.Helper()

	body := "ID,DATE_TIME,AMOUNT,FEE,NET,CUMULATIVE,NOTE\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}
