package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A personal trade journal",
	Long: `Tradebook keeps an in-memory journal of trade outcomes.

It provides tools for:
  - Logging trades with fees and notes in an interactive session
  - Bulk editing the journal from an exported CSV table
  - Summary statistics: net, fees, win rate, best and worst trade
  - Exporting to CSV, Org, SQLite snapshots and PNG balance charts
  - Serving the journal over a JSON HTTP API`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg *config.Config
	log *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if log != nil {
			_ = log.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TRADEBOOK_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
}

// setup loads configuration and builds the logger before any subcommand.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err = logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Debug("config loaded", zap.String("file", cfgFile), zap.String("currency", cfg.Journal.Currency))
	return nil
}

func newLedger() *journal.Ledger {
	return journal.NewLedger(cfg.LedgerOptions()...)
}

// loadCSV builds a ledger from an exported CSV table. Rows that needed
// defaults are logged as warnings.
func loadCSV(path string) (*journal.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := journal.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l := newLedger()
	for _, w := range l.Edit(journal.ParseOrder(cfg.Export.Order), rows) {
		log.Warn("row replaced by default", zap.String("file", path), zap.String("detail", w.String()))
	}
	return l, nil
}
