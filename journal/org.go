package journal

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// FormatEntryOrg renders an entry as an Org-mode block suitable for pasting
// into a journal. Structured facts live in a PROPERTIES drawer; the Review
// heading is left for the trader to fill in.
func FormatEntryOrg(e Entry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Trade %d: %s\n", e.ID, e.Note))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %d\n", e.ID))
	b.WriteString(fmt.Sprintf(":DATE_TIME: %s\n", e.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":AMOUNT: %s\n", exact(e.Amount)))
	b.WriteString(fmt.Sprintf(":FEE: %s\n", exact(e.Fee)))
	b.WriteString(fmt.Sprintf(":NET: %s\n", money(e.Net)))
	b.WriteString(fmt.Sprintf(":CUMULATIVE: %s\n", money(e.Cumulative)))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

var summaryOrgFuncs = template.FuncMap{
	"money": money,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var summaryOrg = template.Must(template.New("summary").Funcs(summaryOrgFuncs).Parse(SummaryOrgTemplate))

// OrgReport is the data behind SummaryOrgTemplate.
type OrgReport struct {
	Title   string
	Created time.Time
	Summary Summary
	Entries []Entry
}

// WriteOrg writes a full Org report: the summary drawer followed by every
// entry in the requested order.
func (l *Ledger) WriteOrg(w io.Writer, title string, order Order) error {
	return WriteOrgReport(w, OrgReport{
		Title:   title,
		Created: l.now(),
		Summary: l.Summary(),
		Entries: l.List(order),
	})
}

func WriteOrgReport(w io.Writer, r OrgReport) error {
	if r.Title == "" {
		r.Title = "Trade journal"
	}
	if err := summaryOrg.Execute(w, r); err != nil {
		return fmt.Errorf("org summary: %w", err)
	}
	if len(r.Entries) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"+FormatEntriesOrg(r.Entries)); err != nil {
		return fmt.Errorf("org entries: %w", err)
	}
	return nil
}

const SummaryOrgTemplate = `* {{.Title}}
:PROPERTIES:
:TRADES:      {{.Summary.TradeCount}}
:TOTAL_NET:   {{money .Summary.TotalNet}}
:TOTAL_FEES:  {{money .Summary.TotalFees}}
:WINS:        {{.Summary.Wins}}
:LOSSES:      {{.Summary.Losses}}
:WIN_RATE:    {{printf "%.1f" .Summary.WinRate}}
:BEST:        {{money .Summary.Best}}
:WORST:       {{money .Summary.Worst}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

| Outcome | Count | Net |
|---------+-------+-----|
| Wins    | {{.Summary.Wins}} | {{money .Summary.WinsAmount}} |
| Losses  | {{.Summary.Losses}} | {{money .Summary.LossesAmount}} |
| Total   | {{.Summary.TradeCount}} | {{money .Summary.TotalNet}} |
`
