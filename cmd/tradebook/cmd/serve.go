package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pkg/id"
	"github.com/rustyeddy/tradebook/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Long: `Start a JSON HTTP API over a fresh in-memory journal.

The journal lives as long as the process. Use the export endpoints or
PUT /api/trades with a saved table to carry trades between runs.

Example:
  tradebook serve --addr 127.0.0.1:8501 --load trades.csv`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr string
	serveLoad string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveLoad, "load", "", "preload trades from an exported CSV")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var (
		l   *journal.Ledger
		err error
	)
	if serveLoad != "" {
		if l, err = loadCSV(serveLoad); err != nil {
			return err
		}
	} else {
		l = newLedger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := id.Session()
	log.Info("session started", zap.String("session", session), zap.Int("trades", l.Len()))
	return server.New(cfg, l, log, session).Run(ctx)
}
