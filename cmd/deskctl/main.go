// deskctl is an operator tool working directly on the configured ticket
// storage: export the collection, look tickets up, change a status, or seed
// the demo data. It reads the same environment as the API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/bootstrap"
	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/export"
	"github.com/spec-kit/report-desk/internal/observability"
	"github.com/spec-kit/report-desk/internal/service"
	"github.com/spec-kit/report-desk/internal/store"
)

const usage = `deskctl manages report-desk tickets in the configured storage.

Usage:
  deskctl [--verbose] <command> [flags] [args]

Commands:
  export [--out FILE]          write all tickets to an XLSX workbook
  lookup NUMBER                show the lookup view for a ticket
  list [--query Q] [--status S]
                               list tickets, newest first
  set-status NUMBER STATUS     change a ticket's status
  seed                         install the demo tickets into an empty store
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	global := pflag.NewFlagSet("deskctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	verbose := global.BoolP("verbose", "v", false, "log storage activity to stderr")
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewNop()
	if *verbose {
		logCfg := cfg.Logger
		logCfg.Format = "console"
		logCfg.Output = "stderr"
		if logger, err = observability.NewLogger(logCfg); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	tickets := service.NewTicketService(service.TicketDependencies{
		Store:          storage.Store,
		HistoryRepo:    storage.History,
		Logger:         logger,
		ExportLocation: cfg.Export.Location(),
	})

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "export":
		return runExport(cmdArgs, tickets, stdout)
	case "lookup":
		return runLookup(cmdArgs, tickets, stdout)
	case "list":
		return runList(cmdArgs, tickets, stdout)
	case "set-status":
		return runSetStatus(ctx, cmdArgs, tickets, stdout)
	case "seed":
		if len(cmdArgs) != 0 {
			return errUsage
		}
		before := len(storage.Store.List())
		if err := bootstrap.SeedDemo(ctx, storage.Store, logger); err != nil {
			return err
		}
		if before > 0 {
			fmt.Fprintf(stdout, "store already holds %d tickets; nothing seeded\n", before)
			return nil
		}
		fmt.Fprintf(stdout, "seeded %d demo tickets\n", len(storage.Store.List()))
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", command, errUsage)
}

func runExport(args []string, tickets *service.TicketService, stdout io.Writer) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	out := flags.StringP("out", "o", export.Filename, "destination file")
	if err := flags.Parse(args); err != nil || flags.NArg() != 0 {
		return errUsage
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := tickets.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

func runLookup(args []string, tickets *service.TicketService, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	view, err := tickets.Lookup(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func runList(args []string, tickets *service.TicketService, stdout io.Writer) error {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	query := flags.StringP("query", "q", "", "case-insensitive text filter")
	statuses := flags.StringSlice("status", nil, "only these statuses")
	if err := flags.Parse(args); err != nil || flags.NArg() != 0 {
		return errUsage
	}

	q := store.Query{Text: *query}
	for _, raw := range *statuses {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return fmt.Errorf("invalid status %q", raw)
		}
		q.Statuses = append(q.Statuses, status)
	}

	listing := tickets.ListTickets(q)
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tSTATUS\tPRIORITY\tCREATED\tTITLE")
	for _, t := range listing.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.TicketNumber, t.Status, t.Priority, t.CreatedAt.Format("2006-01-02 15:04"), t.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d of %d tickets\n", len(listing.Items), listing.Stats.Total)
	return nil
}

func runSetStatus(ctx context.Context, args []string, tickets *service.TicketService, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	status, ok := domain.ParseStatus(args[1])
	if !ok {
		var names []string
		for _, info := range domain.Statuses() {
			names = append(names, string(info.Status))
		}
		return fmt.Errorf("invalid status %q (one of %s)", args[1], strings.Join(names, ", "))
	}
	ticket, err := tickets.UpdateTicket(ctx, domain.RoleAdmin, args[0], domain.TicketPatch{Status: &status})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s is now %s\n", ticket.TicketNumber, ticket.Status)
	return nil
}
