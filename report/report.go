// Package report renders ledger entries and summaries as markdown for the
// terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradebook/journal"
)

// Glamour style names accepted by Render.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Styles lists the style names in the order shown in flag help.
var Styles = []string{StylePlain, StyleDark, StyleLight}

// ErrUnknownStyle is returned by Render for a style not in Styles.
var ErrUnknownStyle = errors.New("unknown style")

// Money formats d in the given ISO currency. Unknown currencies fall back to
// a plain two decimal number followed by the code.
func Money(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return strings.TrimSpace(d.StringFixed(2) + " " + currency)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// TableMarkdown renders entries as a markdown table in the order given.
func TableMarkdown(entries []journal.Entry, currency string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString("| ID | Date/Time | Amount | Fee | Net | Cumulative | Note |\n")
	b.WriteString("|---:|---|---:|---:|---:|---:|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			e.ID,
			e.Time.In(loc).Format(journal.TimeLayout),
			Money(e.Amount, currency),
			Money(e.Fee, currency),
			Money(e.Net, currency),
			Money(e.Cumulative, currency),
			cell(e.Note),
		)
	}
	if len(entries) == 0 {
		b.WriteString("| | | | | | | _no trades_ |\n")
	}
	return b.String()
}

// SummaryMarkdown renders the statistics block.
func SummaryMarkdown(s journal.Summary, currency string) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total net:** %s\n", Money(s.TotalNet, currency))
	fmt.Fprintf(&b, "- **Trades:** %d\n", s.TradeCount)
	fmt.Fprintf(&b, "- **Total fees:** %s\n", Money(s.TotalFees, currency))
	fmt.Fprintf(&b, "- **Win rate:** %.1f%%\n", s.WinRate)
	fmt.Fprintf(&b, "- **Wins:** %d (%s)\n", s.Wins, Money(s.WinsAmount, currency))
	fmt.Fprintf(&b, "- **Losses:** %d (%s)\n", s.Losses, Money(s.LossesAmount, currency))
	fmt.Fprintf(&b, "- **Best trade:** %s\n", Money(s.Best, currency))
	fmt.Fprintf(&b, "- **Worst trade:** %s\n", Money(s.Worst, currency))
	fmt.Fprintf(&b, "- **Final balance:** %s\n", Money(s.FinalBalance, currency))
	return b.String()
}

// Document joins the table and summary under a title.
func Document(title string, entries []journal.Entry, s journal.Summary, currency string, loc *time.Location) string {
	if title == "" {
		title = "Trade journal"
	}
	return "# " + title + "\n\n" + TableMarkdown(entries, currency, loc) + "\n" + SummaryMarkdown(s, currency)
}

// WrapWidth is the column at which rendered text wraps.
const WrapWidth = 120

// Render writes markdown to w through glamour using the named style.
func Render(w io.Writer, markdown, style string) error {
	if style == "" {
		style = StylePlain
	}
	if !slices.Contains(Styles, style) {
		return fmt.Errorf("%w %q, want one of %s", ErrUnknownStyle, style, strings.Join(Styles, "|"))
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(WrapWidth),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
