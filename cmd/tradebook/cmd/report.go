package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <csv>",
	Short: "Print the table and summary of an exported CSV",
	Long: `Load an exported trade table and print it with its statistics.

Example:
  tradebook report stock_trades_20240315.csv --order desc`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportOrder string
	reportStyle string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOrder, "order", "", "asc or desc (default from config)")
	reportCmd.Flags().StringVar(&reportStyle, "style", report.StylePlain, "markdown style: "+strings.Join(report.Styles, "|"))
}

func runReport(cmd *cobra.Command, args []string) error {
	l, err := loadCSV(args[0])
	if err != nil {
		return err
	}

	order := journal.ParseOrder(cfg.Export.Order)
	if reportOrder != "" {
		order = journal.ParseOrder(reportOrder)
	}

	md := report.Document(filepath.Base(args[0]), l.List(order), l.Summary(), cfg.Journal.Currency, l.Location())
	return report.Render(os.Stdout, md, reportStyle)
}
