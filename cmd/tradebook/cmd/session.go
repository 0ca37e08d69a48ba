package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pkg/id"
	"github.com/rustyeddy/tradebook/report"
	"github.com/rustyeddy/tradebook/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive journal session",
	Long: `Read journal commands from stdin until quit or EOF.

Type "help" inside the session for the command list.

Example:
  tradebook session --load trades.csv --style dark`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

var (
	sessionLoad  string
	sessionStyle string
)

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().StringVar(&sessionLoad, "load", "", "start from an exported CSV")
	sessionCmd.Flags().StringVar(&sessionStyle, "style", report.StylePlain, "markdown style: "+strings.Join(report.Styles, "|"))
}

func runSession(cmd *cobra.Command, args []string) error {
	var (
		l   *journal.Ledger
		err error
	)
	if sessionLoad != "" {
		if l, err = loadCSV(sessionLoad); err != nil {
			return err
		}
	} else {
		l = newLedger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := session.New(id.Session(), l, cfg, log, os.Stdout)
	s.Style = sessionStyle

	log.Info("session started", zap.String("session", s.ID), zap.Int("trades", l.Len()))
	fmt.Println(`tradebook session, type "help" for commands`)
	return s.Run(ctx, os.Stdin)
}
