// Package session runs an interactive, line oriented trade journal over a
// single in-memory ledger.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/chart"
	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/report"
)

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

const help = `Commands:
  add <amount> [fee] [note...]   log a trade (fee "-" uses the default)
  flip <amount>                  print the amount with its sign flipped
  edit <csv>                     replace the ledger with an edited export
  list [desc]                    show the trade table
  summary                        show statistics
  export csv|org|sqlite|chart <path>
  clear                          remove every trade
  help                           show this help
  quit                           leave the session
`

// Session binds a ledger to an input and output stream.
type Session struct {
	ID     string
	Ledger *journal.Ledger
	Config *config.Config
	Log    *zap.Logger
	Out    io.Writer
	Style  string
}

// New returns a session writing to out.
func New(id string, l *journal.Ledger, cfg *config.Config, log *zap.Logger, out io.Writer) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ID:     id,
		Ledger: l,
		Config: cfg,
		Log:    log,
		Out:    out,
		Style:  report.StylePlain,
	}
}

// Run reads commands from in until EOF, quit or ctx is done. Command errors
// are printed and the loop continues.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	s.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(ctx, sc.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
		}
		s.prompt()
	}
	return sc.Err()
}

func (s *Session) prompt() {
	fmt.Fprint(s.Out, "> ")
}

// Exec runs one command line.
func (s *Session) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "add":
		return s.add(args)
	case "flip":
		if len(args) != 1 {
			return errors.New("usage: flip <amount>")
		}
		flipped, err := journal.FlipSign(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out, flipped)
		return nil
	case "edit":
		if len(args) != 1 {
			return errors.New("usage: edit <csv>")
		}
		return s.edit(args[0])
	case "list", "ls":
		order := journal.ParseOrder(s.Config.Export.Order)
		if len(args) > 0 {
			order = journal.ParseOrder(strings.ToLower(args[0]))
		}
		return s.render(report.TableMarkdown(s.Ledger.List(order), s.Config.Journal.Currency, s.Ledger.Location()))
	case "summary":
		return s.render(report.SummaryMarkdown(s.Ledger.Summary(), s.Config.Journal.Currency))
	case "export":
		if len(args) != 2 {
			return errors.New("usage: export csv|org|sqlite|chart <path>")
		}
		return s.export(ctx, args[0], args[1])
	case "clear":
		s.Ledger.Clear()
		s.Log.Info("ledger cleared", zap.String("session", s.ID))
		fmt.Fprintln(s.Out, "ledger cleared")
		return nil
	case "help", "?":
		fmt.Fprint(s.Out, help)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (s *Session) add(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <amount> [fee] [note...]")
	}
	amount, fee, note := args[0], "", ""
	if len(args) > 1 && args[1] != "-" {
		fee = args[1]
	}
	if len(args) > 2 {
		note = strings.Join(args[2:], " ")
	}

	t, err := s.Ledger.Add(amount, fee, note)
	if err != nil {
		return err
	}
	s.Log.Debug("trade added", zap.String("session", s.ID), zap.Int("id", t.ID))
	fmt.Fprintf(s.Out, "trade %d: net %s\n", t.ID, report.Money(t.Net(), s.Config.Journal.Currency))
	return nil
}

// edit loads a CSV in the configured export order, so a file written by
// "export csv" round-trips unchanged.
func (s *Session) edit(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := journal.ReadCSV(f)
	if err != nil {
		return err
	}
	warnings := s.Ledger.Edit(journal.ParseOrder(s.Config.Export.Order), rows)
	for _, w := range warnings {
		fmt.Fprintln(s.Out, "warning:", w)
	}
	s.Log.Info("ledger edited",
		zap.String("session", s.ID),
		zap.Int("rows", len(rows)),
		zap.Int("warnings", len(warnings)))
	fmt.Fprintf(s.Out, "%d trades loaded\n", s.Ledger.Len())
	return nil
}

func (s *Session) export(ctx context.Context, kind, path string) error {
	order := journal.ParseOrder(s.Config.Export.Order)

	var err error
	switch strings.ToLower(kind) {
	case "csv":
		err = writeFile(path, func(w io.Writer) error {
			return s.Ledger.WriteCSV(w, order, s.Config.Export.BOM)
		})
	case "org":
		err = writeFile(path, func(w io.Writer) error {
			return s.Ledger.WriteOrg(w, "", order)
		})
	case "sqlite":
		err = s.Ledger.ExportSQLite(ctx, path, s.ID)
	case "chart":
		var png []byte
		if png, err = chart.RenderBalance(s.Ledger.List(journal.Chronological)); err == nil {
			err = os.WriteFile(path, png, 0644)
		}
	default:
		return fmt.Errorf("unknown export format %q", kind)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}

	s.Log.Info("exported", zap.String("format", kind), zap.String("path", path))
	fmt.Fprintf(s.Out, "wrote %s\n", path)
	return nil
}

func (s *Session) render(md string) error {
	return report.Render(s.Out, md, s.Style)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
