package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/chart"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pkg/id"
)

var convertCmd = &cobra.Command{
	Use:   "convert <csv>",
	Short: "Convert an exported CSV to Org, SQLite or a PNG chart",
	Long: `Load an exported trade table and write it in other formats.

At least one output flag is required.

Examples:
  tradebook convert trades.csv --org trades.org
  tradebook convert trades.csv --sqlite trades.sqlite --chart balance.png`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertOrg    string
	convertSQLite string
	convertChart  string
	convertTitle  string
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertOrg, "org", "", "write an Org report to this path")
	convertCmd.Flags().StringVar(&convertSQLite, "sqlite", "", "write a SQLite snapshot to this path")
	convertCmd.Flags().StringVar(&convertChart, "chart", "", "write a PNG balance chart to this path")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "Org report title")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertOrg == "" && convertSQLite == "" && convertChart == "" {
		return errors.New("nothing to do: pass --org, --sqlite or --chart")
	}

	l, err := loadCSV(args[0])
	if err != nil {
		return err
	}
	order := journal.ParseOrder(cfg.Export.Order)

	if convertOrg != "" {
		f, err := os.Create(convertOrg)
		if err != nil {
			return fmt.Errorf("create %s: %w", convertOrg, err)
		}
		if err := l.WriteOrg(f, convertTitle, order); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("✓ Org report: %s\n", convertOrg)
	}

	if convertSQLite != "" {
		session := id.Session()
		if err := l.ExportSQLite(context.Background(), convertSQLite, session); err != nil {
			return err
		}
		log.Info("sqlite snapshot written", zap.String("path", convertSQLite), zap.String("session", session))
		fmt.Printf("✓ SQLite snapshot: %s\n", convertSQLite)
	}

	if convertChart != "" {
		png, err := chart.RenderBalance(l.List(journal.Chronological))
		if err != nil {
			return err
		}
		if err := os.WriteFile(convertChart, png, 0644); err != nil {
			return fmt.Errorf("write %s: %w", convertChart, err)
		}
		fmt.Printf("✓ Balance chart: %s\n", convertChart)
	}

	fmt.Println("Done.")
	return nil
}
